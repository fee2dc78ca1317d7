// Package keyword provides full-text search over records' title, caption,
// location and tags.
package keyword

import (
	"context"

	"github.com/hyperjump/keepsake/internal/models"
)

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// TitleBoost multiplies the score contribution from title matches.
	// Values <= 1 search all fields with a single query.
	TitleBoost float64
	// FuzzyEnabled matches terms within Fuzziness edits for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum edit distance (1 or 2). Default is 1.
	Fuzziness int
}

// Index defines keyword search operations over records.
type Index interface {
	Index(ctx context.Context, rec *models.Record) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Result, error)
	Delete(ctx context.Context, id string) error
	// Suggest returns query with unknown terms replaced by the closest
	// indexed term, or "" when no term needed correcting.
	Suggest(query string) (string, error)
	DocCount() (uint64, error)
	Close() error
}

// Result is a single keyword search hit.
type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}
