package decor

import "github.com/hyperjump/keepsake/internal/models"

func el(kind models.ElementKind, content string, x, y float64, size models.ElementSize, rotation, opacity float64, color string, layer int) models.DecorationElement {
	return models.DecorationElement{
		Kind:            kind,
		Content:         content,
		Position:        models.Position{X: x, Y: y},
		Size:            size,
		RotationDegrees: rotation,
		Opacity:         opacity,
		Color:           color,
		Layer:           layer,
	}
}

const (
	emoji       = models.KindEmoji
	doodle      = models.KindDoodle
	shape       = models.KindShape
	lineArt     = models.KindLineArt
	pattern     = models.KindPattern
	sticker     = models.KindSticker
	frameCorner = models.KindFrameCorner

	small  = models.SizeSmall
	medium = models.SizeMedium
	large  = models.SizeLarge
)

// library holds the hand-authored fallback variants for each category. All
// positions sit in corners and along edges.
var library = map[models.MemoryCategory][][]models.DecorationElement{
	models.CategoryDate: {
		{
			el(emoji, "💕", 85, 15, medium, 15, 0.3, "", 2),
			el(doodle, "heart", 10, 80, small, -20, 0.25, "#FFB6C1", 1),
			el(emoji, "🌸", 90, 70, small, 0, 0.2, "", 3),
			el(shape, "circle", 5, 20, small, 0, 0.15, "#FFC0CB", 1),
			el(lineArt, "heart_chain", 75, 85, medium, -10, 0.2, "", 2),
		},
		{
			el(emoji, "💖", 12, 12, small, -15, 0.3, "", 2),
			el(frameCorner, "heart_corner", 92, 8, medium, 90, 0.25, "#FFB6C1", 1),
			el(lineArt, "dot_trail", 80, 88, medium, 0, 0.2, "#E6E6FA", 1),
			el(emoji, "🌹", 6, 55, small, 10, 0.25, "", 2),
			el(sticker, "LOVE", 88, 50, small, 12, 0.3, "#FFC0CB", 3),
		},
		{
			el(pattern, "hearts_scatter", 90, 88, medium, 0, 0.2, "#FFB6C1", 1),
			el(doodle, "butterfly", 8, 10, small, 20, 0.25, "#E6E6FA", 2),
			el(emoji, "💗", 93, 35, small, -10, 0.3, "", 3),
			el(lineArt, "swirl_corner", 5, 92, medium, 0, 0.2, "#FFCCCB", 1),
			el(emoji, "✨", 78, 6, small, 0, 0.25, "", 2),
		},
	},
	models.CategoryCelebration: {
		{
			el(emoji, "🎈", 15, 10, medium, 10, 0.35, "", 3),
			el(emoji, "⭐", 85, 20, small, 45, 0.3, "", 2),
			el(pattern, "confetti", 5, 85, large, 0, 0.25, "", 1),
			el(emoji, "🎉", 90, 75, small, -15, 0.3, "", 2),
			el(doodle, "star", 12, 65, small, 30, 0.2, "#FFD700", 1),
		},
		{
			el(pattern, "sparkles", 88, 10, medium, 0, 0.25, "", 1),
			el(emoji, "🎊", 8, 20, medium, -12, 0.3, "", 3),
			el(sticker, "BEST DAY", 85, 88, small, 8, 0.3, "#FFD700", 3),
			el(doodle, "swirl", 5, 75, small, 0, 0.2, "#FF7F7F", 1),
			el(emoji, "🥳", 94, 55, small, 10, 0.25, "", 2),
		},
		{
			el(pattern, "stars_cluster", 10, 8, medium, 0, 0.25, "", 1),
			el(emoji, "🎁", 90, 85, small, -8, 0.3, "", 2),
			el(lineArt, "star_scatter", 85, 12, medium, 15, 0.2, "#87CEEB", 1),
			el(emoji, "🎀", 6, 88, small, 20, 0.3, "", 2),
			el(shape, "diamond", 95, 45, small, 45, 0.2, "#FFD700", 1),
		},
	},
	models.CategoryTravel: {
		{
			el(emoji, "✈️", 80, 10, medium, 25, 0.3, "", 3),
			el(doodle, "cloud", 10, 15, small, 0, 0.2, "#87CEEB", 1),
			el(lineArt, "wave_line", 85, 80, medium, -15, 0.25, "", 2),
			el(emoji, "🗺️", 8, 75, small, -10, 0.25, "", 2),
			el(pattern, "dots_pattern", 92, 45, small, 0, 0.15, "", 1),
		},
		{
			el(emoji, "📸", 10, 8, small, -12, 0.3, "", 3),
			el(lineArt, "dot_trail", 85, 90, medium, 0, 0.2, "#87CEEB", 1),
			el(doodle, "sun", 90, 12, medium, 0, 0.25, "#FFD700", 2),
			el(sticker, "stamp", 6, 85, small, -8, 0.3, "", 2),
			el(emoji, "🧳", 94, 60, small, 6, 0.25, "", 2),
		},
		{
			el(doodle, "arrow", 12, 88, small, 30, 0.25, "#87CEEB", 1),
			el(emoji, "🏖️", 88, 85, small, 0, 0.3, "", 2),
			el(sticker, "washi_tape", 10, 5, medium, -20, 0.3, "#B0E0E6", 3),
			el(doodle, "wave", 92, 40, small, 0, 0.2, "#87CEEB", 1),
			el(emoji, "🎒", 85, 8, small, 15, 0.25, "", 2),
		},
	},
	models.CategoryMilestone: {
		{
			el(emoji, "🌟", 85, 15, large, 0, 0.35, "", 3),
			el(frameCorner, "floral_corner", 5, 5, medium, 0, 0.3, "#DDA0DD", 2),
			el(emoji, "💫", 15, 80, medium, 20, 0.25, "", 2),
			el(doodle, "spiral", 90, 70, small, 0, 0.2, "#9370DB", 1),
			el(pattern, "sparkles", 75, 85, medium, 0, 0.2, "", 1),
		},
		{
			el(frameCorner, "geometric_corner", 95, 5, medium, 90, 0.3, "#DDA0DD", 2),
			el(emoji, "🏆", 8, 85, medium, -10, 0.3, "", 3),
			el(sticker, "FOREVER", 85, 88, small, 6, 0.3, "#E6E6FA", 3),
			el(pattern, "stars_cluster", 6, 12, medium, 0, 0.2, "", 1),
			el(emoji, "✨", 92, 50, small, 0, 0.25, "", 2),
		},
		{
			el(frameCorner, "vine_corner", 5, 95, medium, 270, 0.25, "#9CAF88", 2),
			el(emoji, "🎉", 88, 10, medium, 15, 0.3, "", 3),
			el(doodle, "star", 10, 10, small, 20, 0.25, "#FFD700", 1),
			el(lineArt, "star_scatter", 82, 88, medium, 0, 0.2, "#DDA0DD", 1),
			el(sticker, "star_stamp", 94, 60, small, -12, 0.3, "", 2),
		},
	},
	models.CategoryDaily: {
		{
			el(emoji, "🦋", 20, 15, small, 30, 0.25, "", 2),
			el(doodle, "flower", 85, 75, medium, -10, 0.2, "#98FB98", 1),
			el(shape, "circle", 5, 90, small, 0, 0.15, "#F0E68C", 1),
			el(emoji, "🌿", 92, 25, small, -20, 0.2, "", 2),
			el(lineArt, "vine_border", 10, 70, small, 45, 0.15, "", 1),
		},
		{
			el(doodle, "leaf", 8, 12, small, 25, 0.2, "#9CAF88", 1),
			el(emoji, "☀️", 90, 8, small, 0, 0.25, "", 2),
			el(lineArt, "wave_line", 85, 90, medium, 0, 0.15, "#B0E0E6", 1),
			el(sticker, "paper_clip", 95, 40, small, 15, 0.3, "#F5F5DC", 3),
			el(emoji, "🍃", 6, 80, small, -15, 0.2, "", 2),
		},
		{
			el(pattern, "dots_pattern", 90, 88, small, 0, 0.15, "#F0E68C", 1),
			el(doodle, "cloud", 12, 8, small, 0, 0.2, "#B0E0E6", 1),
			el(emoji, "🌻", 92, 18, small, 10, 0.25, "", 2),
			el(shape, "oval", 5, 55, small, 0, 0.15, "#9CAF88", 1),
			el(emoji, "🐝", 15, 90, small, -20, 0.2, "", 2),
		},
	},
}

// Variants returns copies of the fallback variants for category. Unknown
// categories get the daily variants.
func Variants(category models.MemoryCategory) [][]models.DecorationElement {
	vs, ok := library[category]
	if !ok {
		vs = library[models.CategoryDaily]
	}
	out := make([][]models.DecorationElement, len(vs))
	for i, v := range vs {
		out[i] = append([]models.DecorationElement(nil), v...)
	}
	return out
}
