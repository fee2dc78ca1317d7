package decor

import (
	"fmt"
	"strings"

	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/zones"
)

// Strategy is a positioning hint handed to the oracle.
type Strategy string

const (
	StrategyCornerFocused Strategy = "corner-focused"
	StrategyScattered     Strategy = "scattered"
	StrategyBorderStyle   Strategy = "border-style"
	StrategyAsymmetric    Strategy = "asymmetric"
)

// Strategies lists every positioning strategy.
var Strategies = []Strategy{StrategyCornerFocused, StrategyScattered, StrategyBorderStyle, StrategyAsymmetric}

var strategyHints = map[Strategy]string{
	StrategyCornerFocused: "Cluster decorations in the four corners and keep the edges mostly clear",
	StrategyScattered:     "Scatter decorations lightly across the edges and any negative space",
	StrategyBorderStyle:   "Run decorations along the page borders like a frame",
	StrategyAsymmetric:    "Weight decorations toward one side of the page for an asymmetric look",
}

var kindTitles = []struct {
	kind  models.ElementKind
	title string
	note  string
}{
	{models.KindDoodle, "DOODLE", "Simple hand-drawn illustrations"},
	{models.KindShape, "SHAPE", "Basic geometric shapes in soft colors"},
	{models.KindLineArt, "LINE ART", "Delicate decorative lines and borders"},
	{models.KindPattern, "PATTERN", "Repeated small decorative elements"},
	{models.KindSticker, "STICKER", "Sticker-like elements"},
	{models.KindFrameCorner, "FRAME CORNER", "Decorative corner pieces"},
}

func formatZone(z zones.Zone) string {
	return fmt.Sprintf("x %g-%g%%, y %g-%g%%", z.X1, z.X2, z.Y1, z.Y2)
}

func buildPrompt(req Request, strategy Strategy, reg *zones.Registry) string {
	mood := models.MoodForTone(req.Tone)

	var sb strings.Builder
	sb.WriteString("You are a creative digital scrapbook decorator specializing in couples' memories. ")
	sb.WriteString("Suggest 5-7 decorative elements that add charm to the page without overwhelming the photos and text.\n")

	sb.WriteString("\nMEMORY:\n")
	fmt.Fprintf(&sb, "- Caption: %q\n", req.Caption)
	fmt.Fprintf(&sb, "- Title: %q\n", orDefault(req.Title, "Untitled"))
	fmt.Fprintf(&sb, "- Memory type: %s\n", req.Category)
	fmt.Fprintf(&sb, "- Tone: %s\n", req.Tone)
	fmt.Fprintf(&sb, "- Layout: %s\n", req.Template)
	fmt.Fprintf(&sb, "- Location: %s\n", orDefault(req.Location, "Not specified"))
	fmt.Fprintf(&sb, "- Date: %s\n", orDefault(req.Date, "Not specified"))

	sb.WriteString("\nELEMENT KINDS:\n")
	sb.WriteString("1. EMOJI: a single emoji glyph\n")
	for _, g := range emojiGroups {
		fmt.Fprintf(&sb, "   - %s: %s\n", g.name, strings.Join(g.glyphs, " "))
	}
	for i, k := range kindTitles {
		fmt.Fprintf(&sb, "%d. %s: %s\n   - %s\n", i+2, k.title, k.note, strings.Join(primitives[k.kind], ", "))
	}

	fmt.Fprintf(&sb, "\nPOSITIONING (%s): %s.\n", strategy, strategyHints[strategy])
	sb.WriteString("Keep clear of these content areas:\n")
	for _, z := range reg.TextZones(req.Template) {
		fmt.Fprintf(&sb, "- text: %s\n", formatZone(z))
	}
	for _, z := range reg.PhotoZones(req.Template) {
		fmt.Fprintf(&sb, "- photo: %s\n", formatZone(z))
	}

	fmt.Fprintf(&sb, "\nCOLOR PALETTE (%s): %s\n", mood, strings.Join(Palette(mood), ", "))

	sb.WriteString(`
RULES:
1. Mix element kinds for variety
2. Vary sizes: 2-3 small, 2-3 medium, 1-2 large
3. Keep opacity between 0.15 and 0.4
4. Rotate elements slightly for an organic feel
5. Use layers 1-5

Respond ONLY with valid JSON:
{
  "elements": [
    {
      "kind": "emoji|doodle|shape|lineArt|pattern|sticker|frameCorner",
      "content": "an emoji glyph or a name from the lists above",
      "position": {"x": 15, "y": 20},
      "size": "small|medium|large",
      "rotationDegrees": 15,
      "opacity": 0.25,
      "color": "#FFB6C1",
      "layer": 2
    }
  ],
  "theme": "romantic_date|fun_celebration|peaceful_moment|travel_adventure|daily_joy",
  "mood": "romantic|playful|nostalgic|peaceful|energetic|heartwarming"
}`)
	return sb.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
