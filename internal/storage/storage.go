// Package storage persists records and their composed page data.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/keepsake/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage defines record persistence operations.
type Storage interface {
	CreateRecord(ctx context.Context, rec *models.Record) error
	GetRecord(ctx context.Context, id string) (*models.Record, error)
	UpdateRecord(ctx context.Context, rec *models.Record) error
	// UpdateComposition overwrites only the recommended layout and the
	// decorations blob.
	UpdateComposition(ctx context.Context, id string, layout models.Template, decorations string) error
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(ctx context.Context, offset, limit int) ([]*models.Record, error)

	CountRecords(ctx context.Context) (int64, error)

	Close() error
}
