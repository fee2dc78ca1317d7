package layout

import (
	"fmt"
	"strings"

	"github.com/hyperjump/keepsake/internal/analyzer"
	"github.com/hyperjump/keepsake/internal/models"
)

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// buildPrompt renders the layout request sent to the oracle.
func buildPrompt(in *models.RecordInput, a models.ContentAnalysis) string {
	var sb strings.Builder
	sb.WriteString("You are an expert digital scrapbook layout designer for couples' memories. ")
	sb.WriteString("Recommend the layout that best presents this memory.\n\nAvailable layouts:\n")
	for i, info := range catalog {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, strings.ToUpper(string(info.Template)))
		for _, f := range info.Features {
			fmt.Fprintf(&sb, "   - %s\n", f)
		}
		fmt.Fprintf(&sb, "   - Best for: %s\n", info.BestFor)
		fmt.Fprintf(&sb, "   - Max capacity: %d images\n", info.MaxImages)
	}

	tags := "None"
	if len(in.Tags) > 0 {
		tags = strings.Join(in.Tags, ", ")
	}
	sb.WriteString("\nCONTENT DETAILS:\n")
	fmt.Fprintf(&sb, "- Number of images: %d\n", in.ImageCount)
	fmt.Fprintf(&sb, "- Caption: %q\n", in.Caption)
	fmt.Fprintf(&sb, "- Caption length: %d characters\n", a.CaptionLength)
	fmt.Fprintf(&sb, "- Title: %q\n", orDefault(in.Title, "Untitled"))
	fmt.Fprintf(&sb, "- Date: %s\n", orDefault(in.Date, "Not specified"))
	fmt.Fprintf(&sb, "- Location: %s\n", orDefault(in.Location, "Not specified"))
	fmt.Fprintf(&sb, "- Tags: %s\n", tags)

	sb.WriteString("\nANALYSIS:\n")
	fmt.Fprintf(&sb, "- Detected tone: %s\n", a.Tone)
	fmt.Fprintf(&sb, "- Memory type: %s\n", a.MemoryCategory)
	fmt.Fprintf(&sb, "- Text density: %s\n", analyzer.TextDensity(a.CaptionLength))
	fmt.Fprintf(&sb, "- Emotional indicators: %s\n", analyzer.EmotionalIndicators(in.Caption))

	sb.WriteString(`
Weigh image count against layout capacity, the space the caption needs, and the memory's tone and formality.

Respond ONLY with valid JSON in this exact format:
{
  "layout": "layout-name",
  "reasoning": "why this layout presents the memory best",
  "confidence": 0.85
}`)
	return sb.String()
}
