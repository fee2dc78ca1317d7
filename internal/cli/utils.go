// Package cli provides output helpers for the keepsake command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/keepsake/internal/compose"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/records"
	"github.com/hyperjump/keepsake/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one line per item.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat returns the format named by s.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputText, "":
		return OutputText, nil
	case OutputCompact:
		return OutputCompact, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteComposition writes a composed page in the given format.
func WriteComposition(w io.Writer, comp *compose.Composition, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, comp)
	case OutputCompact:
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%d elements\n",
			comp.Layout.Template, comp.Layout.Confidence, comp.Analysis.Tone,
			comp.Analysis.MemoryCategory, len(comp.Decorations.Elements))
		return nil
	default:
		writeCompositionText(w, comp)
		return nil
	}
}

func writeCompositionText(w io.Writer, comp *compose.Composition) {
	fmt.Fprintf(w, "\nLayout: %s (confidence %.2f", comp.Layout.Template, comp.Layout.Confidence)
	if comp.Layout.Source != "" {
		fmt.Fprintf(w, ", %s", comp.Layout.Source)
	}
	fmt.Fprintln(w, ")")
	if comp.Layout.Reasoning != "" {
		fmt.Fprintf(w, "  %s\n", comp.Layout.Reasoning)
	}
	a := comp.Analysis
	fmt.Fprintf(w, "Analysis: %d photo(s), %d characters, tone %s, memory %s\n",
		a.ImageCount, a.CaptionLength, a.Tone, a.MemoryCategory)
	fmt.Fprintf(w, "Theme: %s | Mood: %s\n", comp.Decorations.Theme, comp.Decorations.Mood)
	if comp.Story != nil {
		fmt.Fprintf(w, "Story (%s, %d words): %s\n", comp.Story.Tone, comp.Story.WordCount, comp.Story.EnhancedCaption)
	}
	fmt.Fprintln(w)
	writeElements(w, comp.Decorations.Elements)
	if comp.Placement.TextRelocations > 0 || comp.Placement.PhotoRelocations > 0 {
		fmt.Fprintf(w, "\nMoved %d element(s) off text and %d off photos\n",
			comp.Placement.TextRelocations, comp.Placement.PhotoRelocations)
	}
}

func writeElements(w io.Writer, elements []models.DecorationElement) {
	if len(elements) == 0 {
		fmt.Fprintln(w, "No decorations")
		return
	}
	fmt.Fprintf(w, "%-12s %-10s %-14s %-7s %7s %5s %5s\n", "KIND", "CONTENT", "POSITION", "SIZE", "OPACITY", "LAYER", "Z")
	for _, e := range elements {
		fmt.Fprintf(w, "%-12s %-10s %-14s %-7s %7.2f %5d %5d\n",
			e.Kind, utils.Truncate(e.Content, 8),
			fmt.Sprintf("(%.0f,%.0f)", e.Position.X, e.Position.Y),
			e.Size, e.Opacity, e.Layer, e.ZIndex)
	}
}

// RecordPage is one page of stored records.
type RecordPage struct {
	Records []*records.View `json:"records"`
	Total   int64           `json:"total"`
	Offset  int             `json:"offset"`
	Limit   int             `json:"limit"`
}

// WriteRecords writes a page of records in the given format.
func WriteRecords(w io.Writer, page *RecordPage, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, page)
	case OutputCompact:
		for _, r := range page.Records {
			writeRecordLine(w, r)
		}
		return nil
	default:
		fmt.Fprintf(w, "\nShowing %d of %d record(s) from offset %d\n\n", len(page.Records), page.Total, page.Offset)
		for _, r := range page.Records {
			writeRecordText(w, r)
		}
		return nil
	}
}

// WriteRecord writes a single record in the given format.
func WriteRecord(w io.Writer, r *records.View, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, r)
	case OutputCompact:
		writeRecordLine(w, r)
		return nil
	default:
		writeRecordText(w, r)
		writeElements(w, r.Decorations.Elements)
		return nil
	}
}

func writeRecordLine(w io.Writer, r *records.View) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.RecommendedLayout, r.Title, TruncateWords(r.Caption, 8))
}

func writeRecordText(w io.Writer, r *records.View) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "ID: %s\n", r.ID)
	if r.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", r.Title)
	}
	fmt.Fprintf(w, "Layout: %s | Photos: %d | Theme: %s | Mood: %s\n",
		r.RecommendedLayout, r.ImageCount, r.Decorations.Theme, r.Decorations.Mood)
	if r.Date != "" || r.Location != "" {
		fmt.Fprintf(w, "When/where: %s\n", strings.TrimSpace(r.Date+" "+r.Location))
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(r.Caption, 200))
}

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, result *records.SearchResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, result)
	case OutputCompact:
		for i, h := range result.Hits {
			fmt.Fprintf(w, "%d\t%.4f\t", i+1, h.Score)
			writeRecordLine(w, h.Record)
		}
		if result.Suggestion != "" {
			fmt.Fprintf(w, "# did you mean: %s\n", result.Suggestion)
		}
		return nil
	default:
		writeSearchResultsText(w, result)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, result *records.SearchResult) {
	fmt.Fprintf(w, "\nFound %d record(s) for %q\n", len(result.Hits), result.Query)
	if result.Suggestion != "" {
		fmt.Fprintf(w, "Did you mean: %s\n", result.Suggestion)
	}
	fmt.Fprintln(w)
	for i, h := range result.Hits {
		fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", i+1, h.Score)
		writeRecordText(w, h.Record)
	}
}

// OracleStatus is the oracle section of a status report.
type OracleStatus struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model,omitempty"`
	Circuit string `json:"circuit,omitempty"`
}

// StatusConfig holds the configuration shown by status.
type StatusConfig struct {
	DatabasePath string `json:"database_path,omitempty"`
	IndexPath    string `json:"index_path,omitempty"`
	Seed         int64  `json:"seed"`
}

// Status is the shape of the GET /api/v1/status response.
type Status struct {
	Records        int64         `json:"records"`
	IndexedRecords *uint64       `json:"indexed_records,omitempty"`
	Oracle         *OracleStatus `json:"oracle,omitempty"`
	Config         *StatusConfig `json:"config,omitempty"`
	DiskUsageBytes *int64        `json:"disk_usage_bytes,omitempty"`
}

// WriteStatus writes a status report. Compact is treated as text.
func WriteStatus(w io.Writer, s *Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "records:            %d   # stored scrapbook records\n", s.Records)
	if s.IndexedRecords != nil {
		fmt.Fprintf(w, "indexed_records:    %d   # records in the keyword index\n", *s.IndexedRecords)
	}
	if s.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # database + index on disk\n", *s.DiskUsageBytes)
	}
	if s.Oracle != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# oracle")
		fmt.Fprintf(w, "enabled:            %t\n", s.Oracle.Enabled)
		if s.Oracle.Model != "" {
			fmt.Fprintf(w, "model:              %s\n", s.Oracle.Model)
		}
		if s.Oracle.Circuit != "" {
			fmt.Fprintf(w, "circuit:            %s\n", s.Oracle.Circuit)
		}
	}
	if s.Config != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# configuration")
		if s.Config.DatabasePath != "" {
			fmt.Fprintf(w, "database_path:      %s\n", s.Config.DatabasePath)
		}
		if s.Config.IndexPath != "" {
			fmt.Fprintf(w, "index_path:         %s\n", s.Config.IndexPath)
		}
		fmt.Fprintf(w, "seed:               %d\n", s.Config.Seed)
	}
	return nil
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
