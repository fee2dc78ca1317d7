// Package placement fits decoration candidates onto a template so they stay
// clear of the template's text and photo zones.
//
// This is a rule-based heuristic, not a collision solver. Each element is
// sized, faded and moved by fixed per-zone-kind rules; many elements landing
// in one zone can still crowd each other.
package placement

import (
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/zones"
	"github.com/hyperjump/keepsake/pkg/utils"
)

// Region thresholds in page percentages.
const (
	cornerLow  = 25
	cornerHigh = 75
	edgeLow    = 20
	edgeHigh   = 80
)

// largeOnEdge is the chance an edge element is drawn large.
const largeOnEdge = 0.7

// Opacity multipliers and caps.
const (
	textOpacityFactor = 0.4
	textOpacityCap    = 0.3
	openOpacityFactor = 2
	openOpacityCap    = 0.9
	fallbackOpacity   = 0.3
)

// Scale jitter bounds.
const (
	minScale = 0.9
	maxScale = 1.5
)

// Z-indexes for faded and boosted elements.
const (
	lowOpacity    = 0.5
	zIndexFaded   = 15
	zIndexBoosted = 8
)

// Report counts the elements moved out of each zone kind.
type Report struct {
	TextRelocations  int `json:"text_relocations"`
	PhotoRelocations int `json:"photo_relocations"`
}

// Resolver places decorations against a zone registry.
type Resolver struct {
	zones *zones.Registry
	rand  utils.Rand
}

// NewResolver creates a resolver. A nil registry uses zones.Default and a nil
// rand uses a clock-seeded source.
func NewResolver(reg *zones.Registry, r utils.Rand) *Resolver {
	if reg == nil {
		reg = zones.Default()
	}
	if r == nil {
		r = utils.NewRand(0)
	}
	return &Resolver{zones: reg, rand: r}
}

// Resolve returns d fitted to template t. It never fails and keeps every element.
func (r *Resolver) Resolve(d models.PageDecorations, t models.Template) models.PageDecorations {
	out, _ := r.ResolveReport(d, t)
	return out
}

// ResolveReport is Resolve that also reports how many elements were relocated.
func (r *Resolver) ResolveReport(d models.PageDecorations, t models.Template) (models.PageDecorations, Report) {
	var rep Report
	out := d.Clone()
	for i, e := range out.Elements {
		raw := e.Position.Clamp()
		inText := r.zones.InText(t, raw)
		inPhoto := !inText && r.zones.InPhoto(t, raw)

		e.Size = r.size(raw, inText)
		e.Opacity = opacity(e.Opacity, inText)
		switch {
		case inText:
			e.Position = awayFromText(raw).Clamp()
			rep.TextRelocations++
		case inPhoto:
			e.Position = awayFromPhoto(raw).Clamp()
			rep.PhotoRelocations++
		default:
			e.Position = raw
		}
		e.Scale = utils.Round(minScale+r.rand.Float64()*(maxScale-minScale), 2)
		if e.Opacity < lowOpacity {
			e.ZIndex = zIndexFaded
		} else {
			e.ZIndex = zIndexBoosted
		}
		out.Elements[i] = e
	}
	return out, rep
}

func (r *Resolver) size(p models.Position, inText bool) models.ElementSize {
	switch {
	case inText:
		return models.SizeSmall
	case (p.X < cornerLow || p.X > cornerHigh) && (p.Y < cornerLow || p.Y > cornerHigh):
		return models.SizeLarge
	case p.X < edgeLow || p.X > edgeHigh || p.Y < edgeLow || p.Y > edgeHigh:
		if r.rand.Float64() < largeOnEdge {
			return models.SizeLarge
		}
		return models.SizeMedium
	default:
		return models.SizeMedium
	}
}

func opacity(raw float64, inText bool) float64 {
	if raw <= 0 {
		raw = fallbackOpacity
	}
	if inText {
		return utils.Round(min(raw*textOpacityFactor, textOpacityCap), 3)
	}
	return utils.Round(min(raw*openOpacityFactor, openOpacityCap), 3)
}

// towardEdge shifts x by dx toward the nearer horizontal edge, staying
// within [5,95].
func towardEdge(x, dx float64) float64 {
	if x < 50 {
		return max(5, x-dx)
	}
	return min(95, x+dx)
}

func awayFromText(p models.Position) models.Position {
	if p.Y > 50 {
		return models.Position{X: towardEdge(p.X, 20), Y: max(10, p.Y-30)}
	}
	return models.Position{X: towardEdge(p.X, 15), Y: p.Y}
}

func awayFromPhoto(p models.Position) models.Position {
	if p.Y > 50 {
		return models.Position{X: towardEdge(p.X, 25), Y: max(5, p.Y-40)}
	}
	return models.Position{X: towardEdge(p.X, 20), Y: min(95, p.Y+30)}
}
