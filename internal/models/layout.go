package models

import "strings"

// Template is one of the five named page layouts.
type Template string

const (
	TemplateCollage        Template = "collage"
	TemplatePolaroidStack  Template = "polaroid-stack"
	TemplateMagazine       Template = "magazine"
	TemplatePhotoAlbum     Template = "photo-album"
	TemplateScrapbookMixed Template = "scrapbook-mixed"
)

// Templates lists the template catalog in display order.
var Templates = []Template{
	TemplateCollage,
	TemplatePolaroidStack,
	TemplateMagazine,
	TemplatePhotoAlbum,
	TemplateScrapbookMixed,
}

// Valid reports whether t names a catalog template.
func (t Template) Valid() bool {
	for _, v := range Templates {
		if v == t {
			return true
		}
	}
	return false
}

// ParseTemplate normalizes casing and separators ("Polaroid_Stack", "photo album")
// and returns the matching template. ok is false when nothing matches.
func ParseTemplate(s string) (Template, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.NewReplacer("_", "-", " ", "-").Replace(name)
	t := Template(name)
	return t, t.Valid()
}

// LayoutSource records which path produced a LayoutChoice.
type LayoutSource string

const (
	SourceOracle   LayoutSource = "oracle"
	SourceFallback LayoutSource = "fallback"
)

// Fallback choices carry this fixed confidence.
const FallbackConfidence = 0.75

// Confidence bounds for any LayoutChoice.
const (
	MinConfidence = 0.5
	MaxConfidence = 1.0
)

// LayoutChoice is the template chosen for a record.
type LayoutChoice struct {
	Template   Template     `json:"layout"`
	Reasoning  string       `json:"reasoning"`
	Confidence float64      `json:"confidence"`
	Source     LayoutSource `json:"source,omitempty"`
}

// StoryTone is the tone reported for an enhanced caption.
type StoryTone string

const (
	StoryRomantic     StoryTone = "romantic"
	StoryPlayful      StoryTone = "playful"
	StoryNostalgic    StoryTone = "nostalgic"
	StoryHeartwarming StoryTone = "heartwarming"
)

// StoryEnhancement is a caption rewritten in a warmer, second-person voice.
type StoryEnhancement struct {
	EnhancedCaption string    `json:"enhancedCaption"`
	Tone            StoryTone `json:"tone"`
	WordCount       int       `json:"wordCount"`
}
