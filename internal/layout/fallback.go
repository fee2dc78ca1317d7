package layout

import "github.com/hyperjump/keepsake/internal/models"

// Fallback picks a template from image count, caption length, tone and category
// alone. It is a pure function: equal inputs always give equal choices, all
// with FallbackConfidence. Image counts of 0 follow the 3-4 image rules.
func Fallback(a models.ContentAnalysis) models.LayoutChoice {
	romantic := a.MemoryCategory == models.CategoryDate || a.Tone == models.ToneRomantic

	var t models.Template
	var reason string
	switch {
	case a.ImageCount == 1:
		switch {
		case a.CaptionLength > 200:
			t, reason = models.TemplateMagazine, "A single photo with a long story reads best with room for text"
		case romantic:
			t, reason = models.TemplatePolaroidStack, "A single romantic photo suits an intimate polaroid"
		default:
			t, reason = models.TemplatePhotoAlbum, "A single photo suits a classic album page"
		}
	case a.ImageCount == 2:
		switch {
		case romantic:
			t, reason = models.TemplatePolaroidStack, "Two romantic photos suit overlapping polaroids"
		case a.CaptionLength > 250:
			t, reason = models.TemplateMagazine, "Two photos with a long story need a text-focused layout"
		default:
			t, reason = models.TemplateCollage, "Two photos fit a playful collage"
		}
	case a.ImageCount <= 4:
		switch {
		case a.CaptionLength > 300 || a.MemoryCategory == models.CategoryMilestone:
			t, reason = models.TemplateMagazine, "A detailed story or milestone deserves a structured magazine spread"
		case a.Tone == models.TonePlayful || a.MemoryCategory == models.CategoryCelebration:
			t, reason = models.TemplateCollage, "A fun celebration fits a decorative collage"
		default:
			t, reason = models.TemplatePhotoAlbum, "A handful of photos fit an organized album page"
		}
	default:
		switch {
		case a.MemoryCategory == models.CategoryTravel || a.Tone == models.ToneNostalgic:
			t, reason = models.TemplateScrapbookMixed, "Many travel or nostalgic photos suit a free-form scrapbook"
		default:
			t, reason = models.TemplateMagazine, "Many photos fit a hero image with a thumbnail gallery"
		}
	}
	return models.LayoutChoice{
		Template:   t,
		Reasoning:  reason + " (fallback mode)",
		Confidence: models.FallbackConfidence,
		Source:     models.SourceFallback,
	}
}
