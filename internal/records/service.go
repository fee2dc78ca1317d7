// Package records manages the record lifecycle: composing a page for new
// records, storing the recommended layout and decorations with the record,
// keeping the keyword index in step, and ingesting records from inbox files.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/keepsake/internal/codec"
	"github.com/hyperjump/keepsake/internal/compose"
	"github.com/hyperjump/keepsake/internal/keyword"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/recordid"
	"github.com/hyperjump/keepsake/internal/storage"
	"github.com/hyperjump/keepsake/internal/validation"
	"github.com/hyperjump/keepsake/pkg/utils"
	"go.uber.org/zap"
)

// ErrUnknownTemplate is returned when a layout override names no catalog template.
var ErrUnknownTemplate = errors.New("unknown layout template")

// reindexPageSize is the batch size used when rebuilding the keyword index.
const reindexPageSize = 200

// Service composes, stores and indexes records.
type Service struct {
	storage  storage.Storage
	index    keyword.Index
	composer *compose.Composer
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a logger for debug output (record created, file ingested, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a record service.
func NewService(st storage.Storage, idx keyword.Index, composer *compose.Composer, opts ...Option) *Service {
	s := &Service{
		storage:  st,
		index:    idx,
		composer: composer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = utils.OrNop(s.logger)
	return s
}

// Composer returns the composer used for new and regenerated pages.
func (s *Service) Composer() *compose.Composer {
	return s.composer
}

// Create validates in, composes its page, and stores and indexes the record.
// A record without an ID gets a random one. When indexing fails the stored
// row is removed again.
func (s *Service) Create(ctx context.Context, in *models.RecordInput) (*View, *compose.Composition, error) {
	in.Normalize()
	if err := validation.Get().Struct(in); err != nil {
		return nil, nil, err
	}
	if in.ID == "" {
		in.ID = recordid.New()
	}
	comp := s.composer.Compose(ctx, in)
	rec := newRecord(in, comp)
	if err := s.storage.CreateRecord(ctx, rec); err != nil {
		return nil, nil, fmt.Errorf("failed to store record: %w", err)
	}
	if err := s.index.Index(ctx, rec); err != nil {
		if delErr := s.storage.DeleteRecord(ctx, rec.ID); delErr != nil {
			s.logger.Warn("failed to roll back unindexed record", zap.String("id", rec.ID), zap.Error(delErr))
		}
		return nil, nil, fmt.Errorf("failed to index record: %w", err)
	}
	s.logger.Debug("record created",
		zap.String("id", rec.ID),
		zap.String("layout", string(rec.RecommendedLayout)),
	)
	return newView(rec), comp, nil
}

// Upsert creates the record for in, or recomposes and overwrites it when a
// record with the same ID exists. When indexing fails the previous row is
// written back.
func (s *Service) Upsert(ctx context.Context, in *models.RecordInput) (*View, error) {
	if in.ID == "" {
		v, _, err := s.Create(ctx, in)
		return v, err
	}
	existing, err := s.storage.GetRecord(ctx, in.ID)
	if errors.Is(err, storage.ErrNotFound) {
		v, _, err := s.Create(ctx, in)
		return v, err
	}
	if err != nil {
		return nil, err
	}

	in.Normalize()
	if err := validation.Get().Struct(in); err != nil {
		return nil, err
	}
	comp := s.composer.Compose(ctx, in)
	rec := newRecord(in, comp)
	rec.CreatedAt = existing.CreatedAt
	if err := s.storage.UpdateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	if err := s.index.Index(ctx, rec); err != nil {
		if restoreErr := s.storage.UpdateRecord(ctx, existing); restoreErr != nil {
			s.logger.Warn("failed to restore record after index error", zap.String("id", rec.ID), zap.Error(restoreErr))
		}
		return nil, fmt.Errorf("failed to index record: %w", err)
	}
	s.logger.Debug("record recomposed", zap.String("id", rec.ID))
	return newView(rec), nil
}

// Get returns the record with id.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	rec, err := s.storage.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return newView(rec), nil
}

// SetLayout overrides the record's layout with t. With redecorate set the
// decorations are regenerated for the new template; otherwise the stored
// decorations are kept as they are.
func (s *Service) SetLayout(ctx context.Context, id string, t models.Template, redecorate bool) (*View, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, t)
	}
	rec, err := s.storage.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	blob := rec.Decorations
	if redecorate {
		blob = s.composer.Redecorate(ctx, rec.Input(), t).Blob
	}
	if err := s.storage.UpdateComposition(ctx, id, t, blob); err != nil {
		return nil, fmt.Errorf("failed to update layout: %w", err)
	}
	s.logger.Debug("record layout overridden",
		zap.String("id", id),
		zap.String("layout", string(t)),
		zap.Bool("redecorated", redecorate),
	)
	return s.Get(ctx, id)
}

// Regenerate replaces the record's decorations with a fresh set for its
// current layout. A record with no usable layout is recomposed from scratch.
func (s *Service) Regenerate(ctx context.Context, id string) (*View, error) {
	rec, err := s.storage.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	in := rec.Input()
	var comp *compose.Composition
	if rec.RecommendedLayout.Valid() {
		comp = s.composer.Redecorate(ctx, in, rec.RecommendedLayout)
	} else {
		comp = s.composer.Compose(ctx, in)
	}
	if err := s.storage.UpdateComposition(ctx, id, comp.Layout.Template, comp.Blob); err != nil {
		return nil, fmt.Errorf("failed to update decorations: %w", err)
	}
	s.logger.Debug("record decorations regenerated", zap.String("id", id))
	return s.Get(ctx, id)
}

// Delete removes a record from the index and the store. Its decorations are
// stored with it and go with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.storage.GetRecord(ctx, id); err != nil {
		return err
	}
	if err := s.index.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from keyword index: %w", err)
	}
	if err := s.storage.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	s.logger.Debug("record deleted", zap.String("id", id))
	return nil
}

// List returns records newest first.
func (s *Service) List(ctx context.Context, offset, limit int) ([]*View, error) {
	recs, err := s.storage.ListRecords(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	views := make([]*View, len(recs))
	for i, rec := range recs {
		views[i] = newView(rec)
	}
	return views, nil
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.storage.CountRecords(ctx)
}

// IndexedCount returns the number of records in the keyword index.
func (s *Service) IndexedCount() (uint64, error) {
	return s.index.DocCount()
}

// Hit is one search result.
type Hit struct {
	Record *View   `json:"record"`
	Score  float64 `json:"score"`
}

// SearchResult holds hits for a query and, when the query had unknown terms,
// a corrected query to suggest.
type SearchResult struct {
	Query      string `json:"query"`
	Hits       []*Hit `json:"hits"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Search runs a keyword search over title, caption, location and tags.
func (s *Service) Search(ctx context.Context, query string, limit int, opts *keyword.SearchOptions) (*SearchResult, error) {
	results, err := s.index.Search(ctx, query, limit, opts)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	out := &SearchResult{Query: query, Hits: make([]*Hit, 0, len(results))}
	for _, r := range results {
		rec, err := s.storage.GetRecord(ctx, r.ID)
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("search hit without stored record", zap.String("id", r.ID))
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Hits = append(out.Hits, &Hit{Record: newView(rec), Score: r.Score})
	}
	if suggestion, err := s.index.Suggest(query); err != nil {
		s.logger.Debug("suggest failed", zap.Error(err))
	} else if suggestion != "" && suggestion != query {
		out.Suggestion = suggestion
	}
	return out, nil
}

// Reindex writes every stored record to the keyword index. It repopulates an
// index that was opened empty or rebuilt after a mapping change.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	n := 0
	for offset := 0; ; offset += reindexPageSize {
		recs, err := s.storage.ListRecords(ctx, offset, reindexPageSize)
		if err != nil {
			return n, err
		}
		for _, rec := range recs {
			if err := s.index.Index(ctx, rec); err != nil {
				return n, err
			}
			n++
		}
		if len(recs) < reindexPageSize {
			return n, nil
		}
	}
}

func newRecord(in *models.RecordInput, comp *compose.Composition) *models.Record {
	return &models.Record{
		ID:                in.ID,
		Title:             in.Title,
		Caption:           in.Caption,
		ImageCount:        in.ImageCount,
		Date:              in.Date,
		Location:          in.Location,
		Tags:              append([]string(nil), in.Tags...),
		RecommendedLayout: comp.Layout.Template,
		Decorations:       comp.Blob,
	}
}

// View is a record with its decorations decoded for the rendering side.
type View struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Caption           string                 `json:"caption"`
	ImageCount        int                    `json:"image_count"`
	Date              string                 `json:"date,omitempty"`
	Location          string                 `json:"location,omitempty"`
	Tags              []string               `json:"tags,omitempty"`
	RecommendedLayout models.Template        `json:"recommended_layout"`
	Decorations       models.PageDecorations `json:"decorations"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

func newView(rec *models.Record) *View {
	return &View{
		ID:                rec.ID,
		Title:             rec.Title,
		Caption:           rec.Caption,
		ImageCount:        rec.ImageCount,
		Date:              rec.Date,
		Location:          rec.Location,
		Tags:              rec.Tags,
		RecommendedLayout: rec.RecommendedLayout,
		Decorations:       codec.DecodeOrEmpty(rec.Decorations),
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}
