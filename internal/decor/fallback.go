package decor

import (
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/pkg/utils"
)

// maxRotationJitter is the largest rotation offset, in degrees, added to a
// fallback element.
const maxRotationJitter = 10

// romanticOpacityBoost lifts colored elements on romantic pages.
const romanticOpacityBoost = 1.2

// Fallback picks one curated variant for category at random and jitters it:
// colored elements take successive colors from the mood palette starting at
// a random offset, and every rotation moves by up to ±10 degrees. The theme
// is the category and the mood follows the tone. The result is never empty.
func Fallback(r utils.Rand, category models.MemoryCategory, tone models.Tone) models.PageDecorations {
	mood := models.MoodForTone(tone)
	if !category.Valid() {
		category = models.CategoryDaily
	}
	variant := utils.Pick(r, Variants(category))
	palette := Palette(mood)
	offset := r.Intn(len(palette))

	elements := make([]models.DecorationElement, len(variant))
	colored := 0
	for i, e := range variant {
		if e.Color != "" {
			e.Color = palette[(offset+colored)%len(palette)]
			colored++
			if tone == models.ToneRomantic {
				e.Opacity = utils.Round(utils.Clamp(e.Opacity*romanticOpacityBoost, 0, 1), 3)
			}
		}
		e.RotationDegrees = utils.Round(e.RotationDegrees+(r.Float64()*2-1)*maxRotationJitter, 1)
		elements[i] = e
	}
	return models.PageDecorations{
		Elements: elements,
		Theme:    string(category),
		Mood:     mood,
	}
}
