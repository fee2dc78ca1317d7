package decor

import "github.com/hyperjump/keepsake/internal/models"

var palettes = map[models.Mood][]string{
	models.MoodRomantic:     {"#FFB6C1", "#FFC0CB", "#FFCCCB", "#E6E6FA"},
	models.MoodPlayful:      {"#FF7F7F", "#FFD700", "#87CEEB"},
	models.MoodNostalgic:    {"#DEB887", "#D2B48C", "#DDA0DD"},
	models.MoodPeaceful:     {"#9CAF88", "#B0E0E6", "#F5F5DC"},
	models.MoodEnergetic:    {"#FF6347", "#00BFFF", "#32CD32"},
	models.MoodHeartwarming: {"#F4A460", "#FFDAB9", "#FFB6C1"},
}

var themeColors = map[models.Mood]string{
	models.MoodRomantic:     "#FF69B4",
	models.MoodPlayful:      "#FFB347",
	models.MoodNostalgic:    "#DDA0DD",
	models.MoodPeaceful:     "#87CEEB",
	models.MoodEnergetic:    "#FF6B6B",
	models.MoodHeartwarming: "#F4A460",
}

// DefaultColor is drawn for elements without a color of their own.
const DefaultColor = "#E8B4CB"

// Palette returns the color palette for mood. Unknown moods get the
// heartwarming palette.
func Palette(mood models.Mood) []string {
	p, ok := palettes[mood]
	if !ok {
		p = palettes[models.MoodHeartwarming]
	}
	return append([]string(nil), p...)
}

// ThemeColor is the accent color a page uses for its mood.
func ThemeColor(mood models.Mood) string {
	if c, ok := themeColors[mood]; ok {
		return c
	}
	return DefaultColor
}

// SizeMetric is how a renderer sizes an element of a given size class.
type SizeMetric struct {
	FontSizePx  int `json:"font_size_px"`
	DimensionPx int `json:"dimension_px"`
}

var sizeMetrics = map[models.ElementSize]SizeMetric{
	models.SizeSmall:  {FontSizePx: 16, DimensionPx: 12},
	models.SizeMedium: {FontSizePx: 24, DimensionPx: 20},
	models.SizeLarge:  {FontSizePx: 32, DimensionPx: 28},
}

// SizeMetrics returns the base pixel sizes for each size class, before the
// placement scale is applied.
func SizeMetrics() map[models.ElementSize]SizeMetric {
	out := make(map[models.ElementSize]SizeMetric, len(sizeMetrics))
	for k, v := range sizeMetrics {
		out[k] = v
	}
	return out
}
