package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/keepsake/internal/compose"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/placement"
	"github.com/hyperjump/keepsake/internal/records"
)

func sampleComposition() *compose.Composition {
	return &compose.Composition{
		Analysis: models.ContentAnalysis{
			ImageCount:     2,
			CaptionLength:  40,
			Tone:           models.ToneRomantic,
			MemoryCategory: models.CategoryDate,
		},
		Layout: models.LayoutChoice{
			Template:   models.TemplatePolaroidStack,
			Reasoning:  "Two photos suit a stack",
			Confidence: 0.75,
			Source:     models.SourceFallback,
		},
		Decorations: models.PageDecorations{
			Elements: []models.DecorationElement{
				{Kind: models.KindEmoji, Content: "💕", Position: models.Position{X: 10, Y: 90}, Size: models.SizeSmall, Opacity: 0.8, Layer: 2, ZIndex: 8},
			},
			Theme: "date",
			Mood:  models.MoodRomantic,
		},
		Placement: placement.Report{TextRelocations: 1},
	}
}

func sampleView(id, title string) *records.View {
	return &records.View{
		ID:                id,
		Title:             title,
		Caption:           "We walked along the river and ate custard tarts",
		ImageCount:        3,
		Location:          "Lisbon",
		Tags:              []string{"travel", "food"},
		RecommendedLayout: models.TemplateCollage,
		Decorations:       models.PageDecorations{Elements: []models.DecorationElement{}, Theme: "travel", Mood: models.MoodPeaceful},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{" compact ", OutputCompact, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseOutputFormat(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteComposition_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteComposition(&buf, sampleComposition(), OutputText); err != nil {
		t.Fatalf("WriteComposition(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Layout: polaroid-stack", "confidence 0.75", "fallback", "tone romantic", "memory date", "Mood: romantic", "emoji", "(10,90)", "Moved 1 element(s) off text"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteComposition_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteComposition(&buf, sampleComposition(), OutputJSON); err != nil {
		t.Fatalf("WriteComposition(json): %v", err)
	}
	var decoded struct {
		Layout struct {
			Layout string `json:"layout"`
		} `json:"layout"`
		Decorations models.PageDecorations `json:"decorations"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if decoded.Layout.Layout != "polaroid-stack" || len(decoded.Decorations.Elements) != 1 {
		t.Errorf("unexpected json: %s", buf.String())
	}
}

func TestWriteComposition_compactNoDecorations(t *testing.T) {
	comp := sampleComposition()
	comp.Decorations.Elements = nil
	var buf bytes.Buffer
	if err := WriteComposition(&buf, comp, OutputCompact); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "polaroid-stack\t0.75\tromantic\tdate\t0 elements\n" {
		t.Errorf("compact output = %q", got)
	}

	buf.Reset()
	_ = WriteComposition(&buf, comp, OutputText)
	if !strings.Contains(buf.String(), "No decorations") {
		t.Errorf("text output should report no decorations:\n%s", buf.String())
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	result := &records.SearchResult{
		Query:      "lisbn",
		Hits:       []*records.Hit{{Record: sampleView("r1", "Lisbon trip"), Score: 0.5}},
		Suggestion: "lisbon",
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, result, OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{`Found 1 record(s) for "lisbn"`, "Did you mean: lisbon", "Rank: 1", "ID: r1", "Title: Lisbon trip", "Tags: travel, food", "custard tarts"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResults_compact(t *testing.T) {
	result := &records.SearchResult{
		Query: "river",
		Hits:  []*records.Hit{{Record: sampleView("r1", "Lisbon trip"), Score: 1.25}},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, result, OutputCompact); err != nil {
		t.Fatal(err)
	}
	want := "1\t1.2500\tr1\tcollage\tLisbon trip\tWe walked along the river and ate custard...\n"
	if got := buf.String(); got != want {
		t.Errorf("compact output = %q, want %q", got, want)
	}
}

func TestWriteSearchResults_JSON_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, &records.SearchResult{Query: "q", Hits: []*records.Hit{}}, OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded records.SearchResult
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("empty response JSON decode: %v", err)
	}
	if decoded.Query != "q" || len(decoded.Hits) != 0 || decoded.Suggestion != "" {
		t.Errorf("unexpected decoded result: %+v", decoded)
	}
}

func TestWriteSearchResults_unknownFormatTreatedAsText(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSearchResults(&buf, &records.SearchResult{Query: "x"}, OutputFormat("unknown"))
	if err != nil {
		t.Fatalf("WriteSearchResults(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "Found") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestWriteRecords(t *testing.T) {
	page := &RecordPage{
		Records: []*records.View{sampleView("a", "One"), sampleView("b", "Two")},
		Total:   5,
		Offset:  2,
		Limit:   2,
	}
	var buf bytes.Buffer
	if err := WriteRecords(&buf, page, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Showing 2 of 5 record(s) from offset 2") {
		t.Errorf("text output:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteRecords(&buf, page, OutputCompact); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Errorf("compact output has %d lines, want 2:\n%s", lines, buf.String())
	}
}

func TestWriteRecord_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecord(&buf, sampleView("r9", ""), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "Title:") {
		t.Errorf("empty title should be omitted:\n%s", out)
	}
	if !strings.Contains(out, "When/where: Lisbon") || !strings.Contains(out, "No decorations") {
		t.Errorf("text output:\n%s", out)
	}
}

func TestWriteStatus(t *testing.T) {
	indexed := uint64(4)
	disk := int64(2048)
	s := &Status{
		Records:        4,
		IndexedRecords: &indexed,
		DiskUsageBytes: &disk,
		Oracle:         &OracleStatus{Enabled: true, Model: "gemini-2.0-flash", Circuit: "closed"},
		Config:         &StatusConfig{DatabasePath: "/tmp/k.db", IndexPath: "/tmp/idx", Seed: 42},
	}
	var buf bytes.Buffer
	if err := WriteStatus(&buf, s, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, sub := range []string{"records:            4", "indexed_records:    4", "disk_usage_bytes:   2048", "circuit:            closed", "index_path:         /tmp/idx", "seed:               42"} {
		if !strings.Contains(out, sub) {
			t.Errorf("status output missing %q:\n%s", sub, out)
		}
	}

	buf.Reset()
	if err := WriteStatus(&buf, s, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded Status
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.IndexedRecords == nil || *decoded.IndexedRecords != 4 || decoded.Oracle.Circuit != "closed" {
		t.Errorf("decoded status = %+v", decoded)
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxWords int
		want     string
	}{
		{"empty", "", 3, ""},
		{"few words", "one two", 3, "one two"},
		{"exact", "one two three", 3, "one two three"},
		{"more", "one two three four", 3, "one two three..."},
		{"single long", "word", 1, "word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWords(tt.s, tt.maxWords)
			if got != tt.want {
				t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.s, tt.maxWords, got, tt.want)
			}
		})
	}
}
