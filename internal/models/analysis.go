package models

// Tone is the emotional register detected in a caption.
type Tone string

const (
	ToneRomantic  Tone = "romantic"
	ToneCasual    Tone = "casual"
	ToneFormal    Tone = "formal"
	TonePlayful   Tone = "playful"
	ToneNostalgic Tone = "nostalgic"
)

// Tones lists every tone in classification priority order, casual last.
var Tones = []Tone{ToneRomantic, TonePlayful, ToneNostalgic, ToneFormal, ToneCasual}

// Valid reports whether t is a known tone.
func (t Tone) Valid() bool {
	for _, v := range Tones {
		if v == t {
			return true
		}
	}
	return false
}

// MemoryCategory is the kind of memory a record describes.
type MemoryCategory string

const (
	CategoryDate        MemoryCategory = "date"
	CategoryMilestone   MemoryCategory = "milestone"
	CategoryDaily       MemoryCategory = "daily"
	CategoryCelebration MemoryCategory = "celebration"
	CategoryTravel      MemoryCategory = "travel"
)

// MemoryCategories lists every category in classification priority order, daily last.
var MemoryCategories = []MemoryCategory{CategoryMilestone, CategoryDate, CategoryTravel, CategoryCelebration, CategoryDaily}

// Valid reports whether c is a known category.
func (c MemoryCategory) Valid() bool {
	for _, v := range MemoryCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ContentAnalysis is the classification of a record's text and photo count.
// It is recomputed on every request and never cached.
type ContentAnalysis struct {
	ImageCount     int            `json:"image_count"`
	CaptionLength  int            `json:"caption_length"`
	Tone           Tone           `json:"tone"`
	MemoryCategory MemoryCategory `json:"memory_category"`
}
