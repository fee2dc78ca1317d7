// Package story rewrites a record's caption into a warmer, second-person
// version addressed to the partner.
package story

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/keepsake/internal/metrics"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/oracle"
	"github.com/hyperjump/keepsake/pkg/utils"
	"go.uber.org/zap"
)

const operation = "story"

const (
	temperature     = 0.7
	maxOutputTokens = 400
)

// Enhancer produces story enhancements.
type Enhancer struct {
	oracle  oracle.Oracle
	metrics *metrics.Collector
	logger  *zap.Logger
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithOracle sets the suggestion oracle.
func WithOracle(o oracle.Oracle) Option {
	return func(e *Enhancer) { e.oracle = o }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(e *Enhancer) { e.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Enhancer) { e.logger = l }
}

// NewEnhancer creates an enhancer.
func NewEnhancer(opts ...Option) *Enhancer {
	e := &Enhancer{}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = utils.OrNop(e.logger)
	return e
}

// Enhance rewrites the caption of in. Without a usable oracle reply the
// caption comes back unchanged with a heartwarming tone.
func (e *Enhancer) Enhance(ctx context.Context, in *models.RecordInput) models.StoryEnhancement {
	if e.oracle == nil {
		e.metrics.Fallback(operation)
		return Unchanged(in.Caption)
	}
	res := oracle.Call(ctx, e.oracle, oracle.Request{
		Operation:       operation,
		Prompt:          buildPrompt(in),
		Temperature:     temperature,
		MaxOutputTokens: maxOutputTokens,
	}, Adapt(in.Caption))
	e.metrics.OracleCall(operation, res.Outcome())
	if s, ok := res.Get(); ok {
		return s
	}
	e.logger.Warn("story oracle rejected, keeping original caption",
		zap.String("outcome", res.Outcome()),
		zap.String("reason", res.Reason()),
	)
	e.metrics.Fallback(operation)
	return Unchanged(in.Caption)
}

// Unchanged is the enhancement that keeps caption as written.
func Unchanged(caption string) models.StoryEnhancement {
	return models.StoryEnhancement{
		EnhancedCaption: caption,
		Tone:            models.StoryHeartwarming,
		WordCount:       utils.WordCount(caption),
	}
}

type payload struct {
	EnhancedCaption string `json:"enhancedCaption"`
	Tone            string `json:"tone"`
}

// Adapt validates a story reply. A missing caption falls back to original and
// an unknown tone to heartwarming; only an unreadable reply is Invalid.
func Adapt(original string) oracle.Adapter[models.StoryEnhancement] {
	return func(raw string) oracle.Result[models.StoryEnhancement] {
		var p payload
		if err := oracle.DecodeJSON(raw, &p); err != nil {
			return oracle.Invalid[models.StoryEnhancement](err.Error())
		}
		caption := strings.TrimSpace(p.EnhancedCaption)
		if caption == "" {
			caption = original
		}
		tone := models.StoryTone(strings.ToLower(strings.TrimSpace(p.Tone)))
		switch tone {
		case models.StoryRomantic, models.StoryPlayful, models.StoryNostalgic, models.StoryHeartwarming:
		default:
			tone = models.StoryHeartwarming
		}
		return oracle.Ok(models.StoryEnhancement{
			EnhancedCaption: caption,
			Tone:            tone,
			WordCount:       utils.WordCount(caption),
		})
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func buildPrompt(in *models.RecordInput) string {
	var sb strings.Builder
	sb.WriteString(`You are helping someone polish a caption for their couple's scrapbook. Keep their words and make them sound warmer, as if spoken directly to their partner.

RULES:
- Change "he" or "she" to "you" and address the partner directly
- Do not add details, facts or events that are not in the original
- Keep the same story; only make the wording flow and sound heartfelt
- Use simple, natural, conversational language
`)
	sb.WriteString("\nORIGINAL:\n")
	fmt.Fprintf(&sb, "- Caption: %q\n", in.Caption)
	fmt.Fprintf(&sb, "- Title: %q\n", orDefault(in.Title, "Untitled Memory"))
	fmt.Fprintf(&sb, "- Date: %s\n", orDefault(in.Date, "Not specified"))
	fmt.Fprintf(&sb, "- Location: %s\n", orDefault(in.Location, "Not specified"))
	sb.WriteString(`
Example:
Original: "He texted me late that night"
Enhanced: "You texted me late that night and it was so sweet"

Respond ONLY with valid JSON in this exact format:
{
  "enhancedCaption": "the rewritten caption",
  "tone": "romantic|playful|nostalgic|heartwarming"
}`)
	return sb.String()
}
