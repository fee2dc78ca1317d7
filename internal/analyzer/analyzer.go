// Package analyzer classifies record text into a tone and a memory category.
package analyzer

import (
	"strings"

	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/pkg/utils"
)

// Word lists are matched as substrings of the lowercased caption and title,
// so "lovely" counts as "love" and "timeless" as "time".
var (
	romanticWords    = []string{"love", "heart", "together", "beautiful"}
	playfulWords     = []string{"fun", "haha", "crazy", "awesome"}
	nostalgicWords   = []string{"remember", "memory", "time", "back"}
	formalWords      = []string{"today", "event"}
	milestoneWords   = []string{"anniversary", "birthday"}
	dateWords        = []string{"date", "dinner"}
	travelWords      = []string{"trip", "travel"}
	celebrationWords = []string{"party", "celebration"}
)

// formalMinLength is the caption length above which formal wording counts.
const formalMinLength = 200

const milestoneTag = "milestone"

// ContentAnalyzer classifies captions. It holds no state.
type ContentAnalyzer struct{}

// NewContentAnalyzer creates a new ContentAnalyzer.
func NewContentAnalyzer() *ContentAnalyzer {
	return &ContentAnalyzer{}
}

// Analyze returns the tone and category of in. It never fails; empty input
// yields {casual, daily}.
func (a *ContentAnalyzer) Analyze(in *models.RecordInput) models.ContentAnalysis {
	if in == nil {
		return models.ContentAnalysis{Tone: models.ToneCasual, MemoryCategory: models.CategoryDaily}
	}
	text := a.normalizeText(in.Caption, in.Title)
	captionLength := utils.CharCount(in.Caption)
	tone := a.classifyTone(text, captionLength)
	return models.ContentAnalysis{
		ImageCount:     max(in.ImageCount, 0),
		CaptionLength:  captionLength,
		Tone:           tone,
		MemoryCategory: a.classifyCategory(text, tone, in),
	}
}

// normalizeText joins the text fields and lowercases them for matching.
func (a *ContentAnalyzer) normalizeText(parts ...string) string {
	return strings.ToLower(strings.Join(parts, " "))
}

// classifyTone checks tones in priority order; the first match wins.
func (a *ContentAnalyzer) classifyTone(text string, captionLength int) models.Tone {
	if utils.ContainsAny(text, romanticWords...) {
		return models.ToneRomantic
	}
	if utils.ContainsAny(text, playfulWords...) {
		return models.TonePlayful
	}
	if utils.ContainsAny(text, nostalgicWords...) {
		return models.ToneNostalgic
	}
	if captionLength > formalMinLength && utils.ContainsAny(text, formalWords...) {
		return models.ToneFormal
	}
	return models.ToneCasual
}

// classifyCategory checks categories in priority order; the first match wins.
func (a *ContentAnalyzer) classifyCategory(text string, tone models.Tone, in *models.RecordInput) models.MemoryCategory {
	if utils.ContainsAny(text, milestoneWords...) || in.HasTag(milestoneTag) {
		return models.CategoryMilestone
	}
	if utils.ContainsAny(text, dateWords...) || tone == models.ToneRomantic {
		return models.CategoryDate
	}
	if strings.TrimSpace(in.Location) != "" || utils.ContainsAny(text, travelWords...) {
		return models.CategoryTravel
	}
	if utils.ContainsAny(text, celebrationWords...) || tone == models.TonePlayful {
		return models.CategoryCelebration
	}
	return models.CategoryDaily
}
