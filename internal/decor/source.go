// Package decor produces raw decoration candidates for a page, from the
// suggestion oracle when one is configured and from a curated library
// otherwise.
package decor

import (
	"context"

	"github.com/hyperjump/keepsake/internal/metrics"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/oracle"
	"github.com/hyperjump/keepsake/internal/zones"
	"github.com/hyperjump/keepsake/pkg/utils"
	"go.uber.org/zap"
)

const operation = "decorations"

const (
	temperature     = 0.9
	maxOutputTokens = 1000
)

// Request describes the page to decorate.
type Request struct {
	Caption  string
	Category models.MemoryCategory
	Tone     models.Tone
	Template models.Template
	Title    string
	Location string
	Date     string
}

// Source produces candidate decorations.
type Source struct {
	oracle  oracle.Oracle
	rand    utils.Rand
	zones   *zones.Registry
	metrics *metrics.Collector
	logger  *zap.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithOracle sets the suggestion oracle.
func WithOracle(o oracle.Oracle) Option {
	return func(s *Source) { s.oracle = o }
}

// WithRand sets the random source used for strategies and fallback variety.
func WithRand(r utils.Rand) Option {
	return func(s *Source) { s.rand = r }
}

// WithZones sets the registry described to the oracle.
func WithZones(r *zones.Registry) Option {
	return func(s *Source) { s.zones = r }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Source) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Source) { s.logger = l }
}

// NewSource creates a candidate source.
func NewSource(opts ...Option) *Source {
	s := &Source{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = utils.NewRand(0)
	}
	if s.zones == nil {
		s.zones = zones.Default()
	}
	s.logger = utils.OrNop(s.logger)
	return s
}

// Candidates returns unplaced decorations for req. The result always has
// between one and MaxElements elements.
func (s *Source) Candidates(ctx context.Context, req Request) models.PageDecorations {
	if s.oracle == nil {
		s.metrics.Fallback(operation)
		return Fallback(s.rand, req.Category, req.Tone)
	}

	strategy := utils.Pick(s.rand, Strategies)
	res := oracle.Call(ctx, s.oracle, oracle.Request{
		Operation:       operation,
		Prompt:          buildPrompt(req, strategy, s.zones),
		Temperature:     temperature,
		MaxOutputTokens: maxOutputTokens,
	}, Adapt(req.Tone, req.Category))
	s.metrics.OracleCall(operation, res.Outcome())

	if d, ok := res.Get(); ok {
		s.logger.Debug("decorations from oracle",
			zap.String("strategy", string(strategy)),
			zap.Int("elements", len(d.Elements)),
		)
		return d
	}
	s.logger.Warn("decoration oracle rejected, using fallback",
		zap.String("outcome", res.Outcome()),
		zap.String("reason", res.Reason()),
	)
	s.metrics.Fallback(operation)
	return Fallback(s.rand, req.Category, req.Tone)
}
