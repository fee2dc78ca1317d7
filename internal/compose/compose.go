// Package compose runs the page pipeline for a record: analysis, layout
// selection, decoration candidates, placement and serialization.
package compose

import (
	"context"

	"github.com/hyperjump/keepsake/internal/analyzer"
	"github.com/hyperjump/keepsake/internal/codec"
	"github.com/hyperjump/keepsake/internal/decor"
	"github.com/hyperjump/keepsake/internal/layout"
	"github.com/hyperjump/keepsake/internal/metrics"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/oracle"
	"github.com/hyperjump/keepsake/internal/placement"
	"github.com/hyperjump/keepsake/internal/story"
	"github.com/hyperjump/keepsake/internal/zones"
	"github.com/hyperjump/keepsake/pkg/utils"
	"go.uber.org/zap"
)

// Composition is the result of running the pipeline for one record.
type Composition struct {
	Analysis    models.ContentAnalysis   `json:"analysis"`
	Layout      models.LayoutChoice      `json:"layout"`
	Decorations models.PageDecorations   `json:"decorations"`
	Placement   placement.Report         `json:"placement"`
	Blob        string                   `json:"-"`
	Story       *models.StoryEnhancement `json:"story,omitempty"`
}

// Composer wires the pipeline stages together. It holds no per-record state
// and is safe for concurrent use.
type Composer struct {
	analyzer *analyzer.ContentAnalyzer
	selector *layout.Selector
	source   *decor.Source
	resolver *placement.Resolver
	enhancer *story.Enhancer
	metrics  *metrics.Collector
	logger   *zap.Logger
}

type options struct {
	oracle  oracle.Oracle
	rand    utils.Rand
	zones   *zones.Registry
	metrics *metrics.Collector
	logger  *zap.Logger
}

// Option configures a Composer.
type Option func(*options)

// WithOracle sets the suggestion oracle shared by every stage.
func WithOracle(o oracle.Oracle) Option {
	return func(opts *options) { opts.oracle = o }
}

// WithRand sets the random source shared by decoration and placement.
func WithRand(r utils.Rand) Option {
	return func(opts *options) { opts.rand = r }
}

// WithZones sets the zone registry.
func WithZones(r *zones.Registry) Option {
	return func(opts *options) { opts.zones = r }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(opts *options) { opts.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(opts *options) { opts.logger = l }
}

// New creates a composer.
func New(opts ...Option) *Composer {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		o.rand = utils.NewRand(0)
	}
	if o.zones == nil {
		o.zones = zones.Default()
	}
	logger := utils.OrNop(o.logger)

	return &Composer{
		analyzer: analyzer.NewContentAnalyzer(),
		selector: layout.NewSelector(
			layout.WithOracle(o.oracle),
			layout.WithMetrics(o.metrics),
			layout.WithLogger(logger),
		),
		source: decor.NewSource(
			decor.WithOracle(o.oracle),
			decor.WithRand(o.rand),
			decor.WithZones(o.zones),
			decor.WithMetrics(o.metrics),
			decor.WithLogger(logger),
		),
		resolver: placement.NewResolver(o.zones, o.rand),
		enhancer: story.NewEnhancer(
			story.WithOracle(o.oracle),
			story.WithMetrics(o.metrics),
			story.WithLogger(logger),
		),
		metrics: o.metrics,
		logger:  logger,
	}
}

// Analyze classifies in.
func (c *Composer) Analyze(in *models.RecordInput) models.ContentAnalysis {
	return c.analyzer.Analyze(in)
}

// Recommend analyzes in and chooses its template.
func (c *Composer) Recommend(ctx context.Context, in *models.RecordInput) (models.ContentAnalysis, models.LayoutChoice) {
	a := c.analyzer.Analyze(in)
	return a, c.selector.Select(ctx, in, a)
}

// Compose runs the full pipeline for in. It never fails.
func (c *Composer) Compose(ctx context.Context, in *models.RecordInput) *Composition {
	a, choice := c.Recommend(ctx, in)
	comp := c.decorate(ctx, in, a, choice.Template)
	comp.Layout = choice
	return comp
}

// Redecorate produces fresh decorations for in on template t, as when the
// owner overrides the recommended layout. The layout in the result is the
// owner's choice at full confidence.
func (c *Composer) Redecorate(ctx context.Context, in *models.RecordInput, t models.Template) *Composition {
	a := c.analyzer.Analyze(in)
	comp := c.decorate(ctx, in, a, t)
	comp.Layout = models.LayoutChoice{
		Template:   t,
		Reasoning:  "Chosen by the record owner",
		Confidence: models.MaxConfidence,
	}
	return comp
}

// DecorateRequest asks for decorations with an explicit category, tone and
// template instead of analyzing the caption.
type DecorateRequest struct {
	Caption  string
	Category models.MemoryCategory
	Tone     models.Tone
	Template models.Template
	Title    string
	Location string
	Date     string
}

// Decorate produces placed decorations for req.
func (c *Composer) Decorate(ctx context.Context, req DecorateRequest) (models.PageDecorations, placement.Report) {
	raw := c.source.Candidates(ctx, decor.Request{
		Caption:  req.Caption,
		Category: req.Category,
		Tone:     req.Tone,
		Template: req.Template,
		Title:    req.Title,
		Location: req.Location,
		Date:     req.Date,
	})
	placed, rep := c.resolver.ResolveReport(raw, req.Template)
	c.metrics.Relocated(string(zones.KindText), rep.TextRelocations)
	c.metrics.Relocated(string(zones.KindPhoto), rep.PhotoRelocations)
	return placed, rep
}

// EnhanceStory rewrites the caption of in.
func (c *Composer) EnhanceStory(ctx context.Context, in *models.RecordInput) models.StoryEnhancement {
	return c.enhancer.Enhance(ctx, in)
}

func (c *Composer) decorate(ctx context.Context, in *models.RecordInput, a models.ContentAnalysis, t models.Template) *Composition {
	placed, rep := c.Decorate(ctx, DecorateRequest{
		Caption:  in.Caption,
		Category: a.MemoryCategory,
		Tone:     a.Tone,
		Template: t,
		Title:    in.Title,
		Location: in.Location,
		Date:     in.Date,
	})
	blob, err := codec.Encode(placed)
	if err != nil {
		c.logger.Warn("failed to encode decorations, storing none", zap.Error(err))
		placed = codec.Empty()
		blob, _ = codec.Encode(placed)
	}
	c.metrics.Composition(string(t))
	c.logger.Debug("page composed",
		zap.String("template", string(t)),
		zap.String("tone", string(a.Tone)),
		zap.String("category", string(a.MemoryCategory)),
		zap.Int("elements", len(placed.Elements)),
		zap.Int("text_relocations", rep.TextRelocations),
		zap.Int("photo_relocations", rep.PhotoRelocations),
	)
	return &Composition{
		Analysis:    a,
		Decorations: placed,
		Placement:   rep,
		Blob:        blob,
	}
}
