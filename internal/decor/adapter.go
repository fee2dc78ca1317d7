package decor

import (
	"fmt"
	"strings"

	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/oracle"
	"github.com/hyperjump/keepsake/internal/validation"
	"github.com/hyperjump/keepsake/pkg/utils"
	"github.com/tidwall/gjson"
)

// DefaultOpacity replaces a missing or out-of-range candidate opacity.
const DefaultOpacity = 0.3

// Adapt returns the validating adapter for a decorations reply. tone and
// category fill in a missing mood and theme.
//
// Elements are read field by field so one bad element never sinks the rest:
// elements missing a kind, content or position, placed outside the page, or
// naming something a renderer cannot draw are dropped. At most MaxElements
// survive. A reply with no surviving elements is Invalid.
func Adapt(tone models.Tone, category models.MemoryCategory) oracle.Adapter[models.PageDecorations] {
	return func(raw string) oracle.Result[models.PageDecorations] {
		body := oracle.ExtractObject(raw)
		if body == "" || !gjson.Valid(body) {
			return oracle.Invalid[models.PageDecorations]("response is not a JSON object")
		}
		doc := gjson.Parse(body)
		list := doc.Get("elements")
		if !list.IsArray() {
			return oracle.Invalid[models.PageDecorations]("response has no elements list")
		}

		elements := make([]models.DecorationElement, 0, models.MaxElements)
		dropped := 0
		list.ForEach(func(_, item gjson.Result) bool {
			e, ok := adaptElement(item, len(elements))
			if !ok {
				dropped++
				return true
			}
			elements = append(elements, e)
			return len(elements) < models.MaxElements
		})
		if len(elements) == 0 {
			return oracle.Invalid[models.PageDecorations](fmt.Sprintf("no usable elements (%d dropped)", dropped))
		}

		mood, ok := models.ParseMood(doc.Get("mood").String())
		if !ok {
			mood = models.MoodForTone(tone)
		}
		theme := strings.TrimSpace(doc.Get("theme").String())
		if theme == "" {
			theme = string(category)
		}
		return oracle.Ok(models.PageDecorations{Elements: elements, Theme: theme, Mood: mood})
	}
}

// adaptElement validates one candidate; index is its position among the
// accepted elements and sets the default layer.
func adaptElement(item gjson.Result, index int) (models.DecorationElement, bool) {
	if !item.IsObject() {
		return models.DecorationElement{}, false
	}
	kind, ok := models.ParseElementKind(firstString(item, "kind", "type"))
	if !ok {
		return models.DecorationElement{}, false
	}
	content, ok := Recognize(kind, item.Get("content").String())
	if !ok {
		return models.DecorationElement{}, false
	}
	x, y := item.Get("position.x"), item.Get("position.y")
	if x.Type != gjson.Number || y.Type != gjson.Number {
		return models.DecorationElement{}, false
	}
	pos := models.Position{X: x.Float(), Y: y.Float()}
	if !pos.InBounds() {
		return models.DecorationElement{}, false
	}

	e := models.DecorationElement{
		Kind:     kind,
		Content:  content,
		Position: pos,
		Size:     models.SizeMedium,
		Opacity:  DefaultOpacity,
		Layer:    index + 1,
	}
	if size, ok := models.ParseElementSize(item.Get("size").String()); ok {
		e.Size = size
	}
	if rot := firstNumber(item, "rotationDegrees", "rotation"); rot.Exists() {
		e.RotationDegrees = rot.Float()
	}
	if op := item.Get("opacity"); op.Type == gjson.Number && op.Float() > 0 && op.Float() <= 1 {
		e.Opacity = op.Float()
	}
	if layer := item.Get("layer"); layer.Type == gjson.Number && layer.Int() > 0 {
		e.Layer = int(layer.Int())
	}
	e.Layer = utils.ClampInt(e.Layer, models.MinLayer, models.MaxLayer)
	if color := strings.TrimSpace(item.Get("color").String()); color != "" {
		if validation.Get().Var(color, "hexcolor") == nil {
			e.Color = strings.ToUpper(color)
		}
	}
	return e, true
}

func firstString(item gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := item.Get(k); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str
		}
	}
	return ""
}

func firstNumber(item gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Type == gjson.Number {
			return v
		}
	}
	return gjson.Result{}
}
