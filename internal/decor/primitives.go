package decor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/keepsake/internal/models"
)

// Named primitives a renderer knows how to draw, per element kind. Emoji
// elements carry the glyph itself and have no list.
var primitives = map[models.ElementKind][]string{
	models.KindDoodle: {
		"heart", "star", "flower", "butterfly", "arrow", "swirl", "cloud", "sun", "moon",
		"vine", "branch", "leaf", "petal", "spiral", "wave", "zigzag", "dots_line",
	},
	models.KindShape: {"circle", "triangle", "diamond", "rectangle", "oval", "hexagon"},
	models.KindLineArt: {
		"vine_border", "dot_trail", "swirl_corner", "heart_chain", "star_scatter",
		"wave_line", "zigzag_border", "petal_trail", "bubble_trail",
	},
	models.KindPattern: {
		"confetti", "sparkles", "petals_falling", "hearts_scatter", "dots_pattern",
		"stars_cluster", "bubbles", "musical_notes",
	},
	models.KindSticker: {
		"LOVE", "CUTE", "BEST DAY", "FOREVER", "heart_stamp", "star_stamp",
		"polaroid_frame", "washi_tape", "paper_clip", "pin", "stamp",
	},
	models.KindFrameCorner: {"floral_corner", "geometric_corner", "heart_corner", "vine_corner"},
}

// Suggested emoji, grouped the way the oracle prompt presents them.
var emojiGroups = []struct {
	name   string
	glyphs []string
}{
	{"Romantic", []string{"💕", "💖", "💗", "💘", "💝", "💞", "💟", "❤️", "🧡", "💛", "💚", "💙", "💜", "🤍"}},
	{"Nature", []string{"🌸", "🌺", "🌻", "🌹", "🌷", "🌼", "💐", "🌿", "🍃", "🌱", "🌳", "🦋", "🐝"}},
	{"Celestial", []string{"⭐", "🌟", "✨", "💫", "🌙", "☀️", "🌈", "☁️"}},
	{"Fun", []string{"🎈", "🎉", "🎊", "🎀", "🎁", "🧸", "🍰", "🥳"}},
	{"Travel", []string{"✈️", "🗺️", "🧳", "📸", "🎒", "🏖️", "🏔️", "🏰"}},
}

// SuggestedEmoji returns the suggested emoji by group name.
func SuggestedEmoji() map[string][]string {
	out := make(map[string][]string, len(emojiGroups))
	for _, g := range emojiGroups {
		out[g.name] = append([]string(nil), g.glyphs...)
	}
	return out
}

// Primitives returns the named primitives for kind. It is empty for emoji.
func Primitives(kind models.ElementKind) []string {
	return append([]string(nil), primitives[kind]...)
}

// maxEmojiRunes bounds a glyph sequence, enough for ZWJ families and flags.
const maxEmojiRunes = 10

// IsEmoji reports whether s looks like a single emoji glyph sequence: no
// letters, digits or spaces, and only code points from the symbol planes or
// joiners and variation selectors.
func IsEmoji(s string) bool {
	if s == "" || !utf8.ValidString(s) || utf8.RuneCountInString(s) > maxEmojiRunes {
		return false
	}
	for _, r := range s {
		if r < 0x200D || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Recognize returns the canonical content for an element of kind, and false
// when the content is not something a renderer can draw. Named primitives
// are matched case-insensitively with spaces, hyphens and underscores
// treated alike.
func Recognize(kind models.ElementKind, content string) (string, bool) {
	content = strings.TrimSpace(content)
	if kind == models.KindEmoji {
		return content, IsEmoji(content)
	}
	key := primitiveKey(content)
	if key == "" {
		return "", false
	}
	for _, p := range primitives[kind] {
		if primitiveKey(p) == key {
			return p, true
		}
	}
	return "", false
}

func primitiveKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
