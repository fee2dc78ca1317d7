package analyzer

import (
	"strings"

	"github.com/hyperjump/keepsake/pkg/utils"
)

type indicator struct {
	label string
	words []string
}

var emotionalIndicators = []indicator{
	{"love", []string{"love", "heart"}},
	{"appreciation", []string{"beautiful", "amazing"}},
	{"joy", []string{"fun", "laugh"}},
	{"nostalgia", []string{"remember", "memory"}},
	{"significance", []string{"special", "perfect"}},
}

// NoIndicators is reported when a caption carries none of the known signals.
const NoIndicators = "casual contentment"

// EmotionalIndicators returns the emotional signals found in caption, in a
// fixed order, joined by ", ".
func EmotionalIndicators(caption string) string {
	text := strings.ToLower(caption)
	var found []string
	for _, ind := range emotionalIndicators {
		if utils.ContainsAny(text, ind.words...) {
			found = append(found, ind.label)
		}
	}
	if len(found) == 0 {
		return NoIndicators
	}
	return strings.Join(found, ", ")
}

// TextDensity describes how much caption text a page must hold.
func TextDensity(captionLength int) string {
	switch {
	case captionLength > 250:
		return "High (needs text-focused layout)"
	case captionLength > 120:
		return "Medium"
	default:
		return "Low"
	}
}
