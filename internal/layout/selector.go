// Package layout chooses a page template for a record, asking the suggestion
// oracle first and falling back to a fixed rule table.
package layout

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/keepsake/internal/metrics"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/oracle"
	"github.com/hyperjump/keepsake/internal/validation"
	"github.com/hyperjump/keepsake/pkg/utils"
	"go.uber.org/zap"
)

const operation = "layout"

// Oracle generation settings for layout requests.
const (
	temperature     = 0.3
	maxOutputTokens = 300
)

// Selector picks a template for a record.
type Selector struct {
	oracle  oracle.Oracle
	metrics *metrics.Collector
	logger  *zap.Logger
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithOracle sets the suggestion oracle. Without one, every choice comes from Fallback.
func WithOracle(o oracle.Oracle) SelectorOption {
	return func(s *Selector) { s.oracle = o }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) SelectorOption {
	return func(s *Selector) { s.metrics = m }
}

// WithLogger sets a logger for fallback and oracle events.
func WithLogger(l *zap.Logger) SelectorOption {
	return func(s *Selector) { s.logger = l }
}

// NewSelector creates a selector.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = utils.OrNop(s.logger)
	return s
}

// Select returns the template for in. It never fails: any oracle problem
// yields the Fallback choice.
func (s *Selector) Select(ctx context.Context, in *models.RecordInput, a models.ContentAnalysis) models.LayoutChoice {
	if s.oracle == nil {
		s.metrics.Fallback(operation)
		return Fallback(a)
	}
	res := oracle.Call(ctx, s.oracle, oracle.Request{
		Operation:       operation,
		Prompt:          buildPrompt(in, a),
		Temperature:     temperature,
		MaxOutputTokens: maxOutputTokens,
	}, AdaptChoice)
	s.metrics.OracleCall(operation, res.Outcome())
	if choice, ok := res.Get(); ok {
		s.logger.Debug("layout chosen by oracle",
			zap.String("layout", string(choice.Template)),
			zap.Float64("confidence", choice.Confidence),
		)
		return choice
	}
	s.logger.Warn("layout oracle rejected, using fallback",
		zap.String("outcome", res.Outcome()),
		zap.String("reason", res.Reason()),
	)
	s.metrics.Fallback(operation)
	return Fallback(a)
}

// choicePayload is the untrusted shape the oracle is asked to return.
type choicePayload struct {
	Layout     string   `json:"layout" validate:"notblank"`
	Reasoning  string   `json:"reasoning"`
	Confidence *float64 `json:"confidence" validate:"required"`
}

// AdaptChoice validates a raw oracle reply into a LayoutChoice: the template
// name is normalized and must be in the catalog, and confidence is clamped
// to [0.5, 1.0].
func AdaptChoice(raw string) oracle.Result[models.LayoutChoice] {
	var p choicePayload
	if err := oracle.DecodeJSON(raw, &p); err != nil {
		return oracle.Invalid[models.LayoutChoice](err.Error())
	}
	if err := validation.Get().Struct(p); err != nil {
		return oracle.Invalid[models.LayoutChoice](err.Error())
	}
	t, ok := models.ParseTemplate(p.Layout)
	if !ok {
		return oracle.Invalid[models.LayoutChoice](fmt.Sprintf("invalid layout: %s", p.Layout))
	}
	reasoning := strings.TrimSpace(p.Reasoning)
	if reasoning == "" {
		reasoning = "Recommended by the layout assistant"
	}
	return oracle.Ok(models.LayoutChoice{
		Template:   t,
		Reasoning:  reasoning,
		Confidence: utils.Clamp(*p.Confidence, models.MinConfidence, models.MaxConfidence),
		Source:     models.SourceOracle,
	})
}
