// Package zones provides the per-template registry of reserved text and photo regions.
package zones

import (
	"github.com/hyperjump/keepsake/internal/models"
)

// Kind is the content a zone reserves space for.
type Kind string

const (
	KindText  Kind = "text"
	KindPhoto Kind = "photo"
)

// Zone is a rectangle in page percentages reserved for text or photos.
type Zone struct {
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
	Kind Kind    `json:"kind"`
}

// Contains reports whether p lies inside z. All edges are inclusive.
func (z Zone) Contains(p models.Position) bool {
	return p.X >= z.X1 && p.X <= z.X2 && p.Y >= z.Y1 && p.Y <= z.Y2
}

// Registry maps templates to their declared zones. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	text        map[models.Template][]Zone
	photo       map[models.Template][]Zone
	defaultText []Zone
}

var defaultRegistry = &Registry{
	text: map[models.Template][]Zone{
		models.TemplateCollage:       {textZone(15, 75, 85, 95)},
		models.TemplatePolaroidStack: {textZone(10, 70, 90, 90)},
		models.TemplateMagazine:      {textZone(15, 65, 85, 85)},
	},
	defaultText: []Zone{textZone(15, 70, 85, 90)},
	photo: map[models.Template][]Zone{
		models.TemplateCollage: {
			photoZone(8, 15, 48, 55),
			photoZone(52, 15, 92, 55),
			photoZone(8, 58, 48, 98),
			photoZone(52, 58, 92, 98),
		},
		models.TemplatePolaroidStack: {
			photoZone(15, 20, 70, 70),
			photoZone(25, 25, 80, 75),
			photoZone(10, 30, 65, 80),
		},
		models.TemplateMagazine: {
			photoZone(15, 25, 85, 65),
			photoZone(15, 70, 35, 85),
			photoZone(40, 70, 60, 85),
		},
		models.TemplatePhotoAlbum:     {photoZone(20, 15, 100, 80)},
		models.TemplateScrapbookMixed: {photoZone(20, 15, 100, 80)},
	},
}

func textZone(x1, y1, x2, y2 float64) Zone {
	return Zone{X1: x1, Y1: y1, X2: x2, Y2: y2, Kind: KindText}
}

func photoZone(x1, y1, x2, y2 float64) Zone {
	return Zone{X1: x1, Y1: y1, X2: x2, Y2: y2, Kind: KindPhoto}
}

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry
}

// TextZones returns a copy of the text zones for t. Templates without their
// own entry share the default caption band.
func (r *Registry) TextZones(t models.Template) []Zone {
	if zs, ok := r.text[t]; ok {
		return append([]Zone(nil), zs...)
	}
	return append([]Zone(nil), r.defaultText...)
}

// PhotoZones returns a copy of the photo zones for t.
func (r *Registry) PhotoZones(t models.Template) []Zone {
	return append([]Zone(nil), r.photo[t]...)
}

// All returns text zones followed by photo zones for t.
func (r *Registry) All(t models.Template) []Zone {
	return append(r.TextZones(t), r.PhotoZones(t)...)
}

// InText reports whether p falls inside any text zone of t.
func (r *Registry) InText(t models.Template, p models.Position) bool {
	return anyContains(r.TextZones(t), p)
}

// InPhoto reports whether p falls inside any photo zone of t.
func (r *Registry) InPhoto(t models.Template, p models.Position) bool {
	return anyContains(r.PhotoZones(t), p)
}

func anyContains(zs []Zone, p models.Position) bool {
	for _, z := range zs {
		if z.Contains(p) {
			return true
		}
	}
	return false
}
