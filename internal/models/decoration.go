package models

import "strings"

// ElementKind is the kind of a decoration element. The set is stable so a
// renderer can register one drawing routine per kind.
type ElementKind string

const (
	KindEmoji       ElementKind = "emoji"
	KindDoodle      ElementKind = "doodle"
	KindShape       ElementKind = "shape"
	KindLineArt     ElementKind = "lineArt"
	KindPattern     ElementKind = "pattern"
	KindSticker     ElementKind = "sticker"
	KindFrameCorner ElementKind = "frameCorner"
)

// ElementKinds lists every decoration kind.
var ElementKinds = []ElementKind{
	KindEmoji, KindDoodle, KindShape, KindLineArt, KindPattern, KindSticker, KindFrameCorner,
}

// ParseElementKind accepts camelCase, snake_case and hyphenated spellings.
func ParseElementKind(s string) (ElementKind, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	for _, k := range ElementKinds {
		if strings.ToLower(string(k)) == key {
			return k, true
		}
	}
	return "", false
}

// ElementSize is the rendered size class of an element.
type ElementSize string

const (
	SizeSmall  ElementSize = "small"
	SizeMedium ElementSize = "medium"
	SizeLarge  ElementSize = "large"
)

// ParseElementSize returns the size for s, case-insensitively.
func ParseElementSize(s string) (ElementSize, bool) {
	switch ElementSize(strings.ToLower(strings.TrimSpace(s))) {
	case SizeSmall:
		return SizeSmall, true
	case SizeMedium:
		return SizeMedium, true
	case SizeLarge:
		return SizeLarge, true
	}
	return "", false
}

// Mood is the overall feel of a decorated page.
type Mood string

const (
	MoodRomantic     Mood = "romantic"
	MoodPlayful      Mood = "playful"
	MoodNostalgic    Mood = "nostalgic"
	MoodPeaceful     Mood = "peaceful"
	MoodEnergetic    Mood = "energetic"
	MoodHeartwarming Mood = "heartwarming"
)

// Moods lists every mood.
var Moods = []Mood{MoodRomantic, MoodPlayful, MoodNostalgic, MoodPeaceful, MoodEnergetic, MoodHeartwarming}

// ParseMood returns the mood for s, case-insensitively.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Moods {
		if v == m {
			return v, true
		}
	}
	return "", false
}

// MoodForTone maps a caption tone to the page mood used when none is supplied.
func MoodForTone(t Tone) Mood {
	switch t {
	case ToneRomantic:
		return MoodRomantic
	case TonePlayful:
		return MoodPlayful
	case ToneNostalgic:
		return MoodNostalgic
	case ToneFormal:
		return MoodPeaceful
	default:
		return MoodHeartwarming
	}
}

// Position is a point in page percentages; (0,0) is the top-left corner.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// InBounds reports whether p lies within [0,100]x[0,100].
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100
}

// Clamp returns p with both coordinates clamped to [0,100].
func (p Position) Clamp() Position {
	return Position{X: clampPercent(p.X), Y: clampPercent(p.Y)}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Layer bounds for decoration elements.
const (
	MinLayer = 1
	MaxLayer = 10
)

// MaxElements caps the number of elements on a page.
const MaxElements = 8

// DecorationElement is a single ornament placed on a page. Elements have no
// identity beyond their order in PageDecorations.Elements.
// Scale and ZIndex are set by placement and are zero on raw candidates.
type DecorationElement struct {
	Kind            ElementKind `json:"kind"`
	Content         string      `json:"content"`
	Position        Position    `json:"position"`
	Size            ElementSize `json:"size"`
	RotationDegrees float64     `json:"rotationDegrees"`
	Opacity         float64     `json:"opacity"`
	Color           string      `json:"color,omitempty"`
	Layer           int         `json:"layer"`
	Scale           float64     `json:"scale,omitempty"`
	ZIndex          int         `json:"zIndex,omitempty"`
}

// PageDecorations is the full decoration set for one record's page. A nil
// Elements list means the same as an empty one; Clone and the blob codec
// return the empty form.
type PageDecorations struct {
	Elements []DecorationElement `json:"elements"`
	Theme    string              `json:"theme"`
	Mood     Mood                `json:"mood"`
}

// Clone returns a deep copy of d.
func (d PageDecorations) Clone() PageDecorations {
	out := d
	out.Elements = append([]DecorationElement(nil), d.Elements...)
	if out.Elements == nil {
		out.Elements = []DecorationElement{}
	}
	return out
}
