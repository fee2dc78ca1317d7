// Package codec converts page decorations to and from the opaque blob stored
// alongside a record.
package codec

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/hyperjump/keepsake/internal/models"
)

// Encode serializes d. A nil element list is written as an empty list, so
// Decode(Encode(d)) equals d.Clone().
func Encode(d models.PageDecorations) (string, error) {
	data, err := json.Marshal(d.Clone())
	if err != nil {
		return "", fmt.Errorf("failed to encode decorations: %w", err)
	}
	return string(data), nil
}

// Decode parses a blob written by Encode. A blob that parses but describes
// decorations no renderer could draw is an error.
func Decode(blob string) (models.PageDecorations, error) {
	var d models.PageDecorations
	if strings.TrimSpace(blob) == "" {
		return d, fmt.Errorf("empty decorations blob")
	}
	if err := json.Unmarshal([]byte(blob), &d); err != nil {
		return models.PageDecorations{}, fmt.Errorf("failed to decode decorations: %w", err)
	}
	if err := check(d); err != nil {
		return models.PageDecorations{}, fmt.Errorf("invalid decorations: %w", err)
	}
	if d.Elements == nil {
		d.Elements = []models.DecorationElement{}
	}
	return d, nil
}

func check(d models.PageDecorations) error {
	if !slices.Contains(models.Moods, d.Mood) {
		return fmt.Errorf("unknown mood %q", d.Mood)
	}
	if len(d.Elements) > models.MaxElements {
		return fmt.Errorf("%d elements, at most %d allowed", len(d.Elements), models.MaxElements)
	}
	for i, e := range d.Elements {
		switch {
		case !slices.Contains(models.ElementKinds, e.Kind):
			return fmt.Errorf("element %d: unknown kind %q", i, e.Kind)
		case !e.Position.InBounds():
			return fmt.Errorf("element %d: position (%g,%g) off the page", i, e.Position.X, e.Position.Y)
		case e.Opacity <= 0 || e.Opacity > 1:
			return fmt.Errorf("element %d: opacity %g out of range", i, e.Opacity)
		case e.Layer < models.MinLayer || e.Layer > models.MaxLayer:
			return fmt.Errorf("element %d: layer %d out of range", i, e.Layer)
		}
	}
	return nil
}

// Empty is the decoration set of a record with none.
func Empty() models.PageDecorations {
	return models.PageDecorations{
		Elements: []models.DecorationElement{},
		Theme:    "",
		Mood:     models.MoodHeartwarming,
	}
}

// DecodeOrEmpty decodes blob, returning Empty for a missing or corrupt blob.
func DecodeOrEmpty(blob string) models.PageDecorations {
	d, err := Decode(blob)
	if err != nil {
		return Empty()
	}
	return d
}
