package layout

import (
	"strings"
	"testing"

	"github.com/hyperjump/keepsake/internal/analyzer"
	"github.com/hyperjump/keepsake/internal/models"
)

func TestFallback_RuleTable(t *testing.T) {
	tests := []struct {
		name     string
		analysis models.ContentAnalysis
		want     models.Template
	}{
		{"one photo long caption", models.ContentAnalysis{ImageCount: 1, CaptionLength: 201, Tone: models.ToneRomantic}, models.TemplateMagazine},
		{"one photo date", models.ContentAnalysis{ImageCount: 1, CaptionLength: 40, Tone: models.ToneCasual, MemoryCategory: models.CategoryDate}, models.TemplatePolaroidStack},
		{"one photo romantic", models.ContentAnalysis{ImageCount: 1, CaptionLength: 40, Tone: models.ToneRomantic, MemoryCategory: models.CategoryMilestone}, models.TemplatePolaroidStack},
		{"one photo otherwise", models.ContentAnalysis{ImageCount: 1, CaptionLength: 40, Tone: models.ToneCasual, MemoryCategory: models.CategoryDaily}, models.TemplatePhotoAlbum},
		{"two photos romantic beats long caption", models.ContentAnalysis{ImageCount: 2, CaptionLength: 400, Tone: models.ToneRomantic}, models.TemplatePolaroidStack},
		{"two photos long caption", models.ContentAnalysis{ImageCount: 2, CaptionLength: 251, Tone: models.ToneCasual, MemoryCategory: models.CategoryDaily}, models.TemplateMagazine},
		{"two photos otherwise", models.ContentAnalysis{ImageCount: 2, CaptionLength: 250, Tone: models.ToneCasual, MemoryCategory: models.CategoryDaily}, models.TemplateCollage},
		{"three photos long caption", models.ContentAnalysis{ImageCount: 3, CaptionLength: 301, Tone: models.TonePlayful}, models.TemplateMagazine},
		{"four photos milestone", models.ContentAnalysis{ImageCount: 4, CaptionLength: 20, Tone: models.TonePlayful, MemoryCategory: models.CategoryMilestone}, models.TemplateMagazine},
		{"three photos playful", models.ContentAnalysis{ImageCount: 3, CaptionLength: 20, Tone: models.TonePlayful, MemoryCategory: models.CategoryDaily}, models.TemplateCollage},
		{"four photos celebration", models.ContentAnalysis{ImageCount: 4, CaptionLength: 20, Tone: models.ToneCasual, MemoryCategory: models.CategoryCelebration}, models.TemplateCollage},
		{"three photos otherwise", models.ContentAnalysis{ImageCount: 3, CaptionLength: 20, Tone: models.ToneCasual, MemoryCategory: models.CategoryDaily}, models.TemplatePhotoAlbum},
		{"no photos uses small-set rules", models.ContentAnalysis{ImageCount: 0, CaptionLength: 20, Tone: models.ToneCasual, MemoryCategory: models.CategoryDaily}, models.TemplatePhotoAlbum},
		{"many photos travel", models.ContentAnalysis{ImageCount: 5, Tone: models.ToneCasual, MemoryCategory: models.CategoryTravel}, models.TemplateScrapbookMixed},
		{"many photos nostalgic", models.ContentAnalysis{ImageCount: 12, Tone: models.ToneNostalgic, MemoryCategory: models.CategoryDaily}, models.TemplateScrapbookMixed},
		{"many photos otherwise", models.ContentAnalysis{ImageCount: 7, Tone: models.ToneCasual, MemoryCategory: models.CategoryDate}, models.TemplateMagazine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(tt.analysis)
			if got.Template != tt.want {
				t.Errorf("Fallback() template = %q, want %q", got.Template, tt.want)
			}
			if got.Confidence != models.FallbackConfidence {
				t.Errorf("Fallback() confidence = %v, want %v", got.Confidence, models.FallbackConfidence)
			}
			if got.Source != models.SourceFallback {
				t.Errorf("Fallback() source = %q", got.Source)
			}
			if !strings.HasSuffix(got.Reasoning, "(fallback mode)") {
				t.Errorf("Fallback() reasoning = %q", got.Reasoning)
			}
		})
	}
}

func TestFallback_IsPure(t *testing.T) {
	a := models.ContentAnalysis{ImageCount: 3, CaptionLength: 120, Tone: models.TonePlayful, MemoryCategory: models.CategoryCelebration}
	first := Fallback(a)
	for i := 0; i < 20; i++ {
		if got := Fallback(a); got != first {
			t.Fatalf("Fallback() call %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestFallback_Scenarios(t *testing.T) {
	an := analyzer.NewContentAnalyzer()

	t.Run("candlelit dinner", func(t *testing.T) {
		in := &models.RecordInput{Caption: "You surprised me with a candlelit dinner, I love you so much", ImageCount: 1}
		a := an.Analyze(in)
		if a.Tone != models.ToneRomantic || a.MemoryCategory != models.CategoryDate {
			t.Fatalf("Analyze() = %+v", a)
		}
		got := Fallback(a)
		if got.Template != models.TemplatePolaroidStack || got.Confidence != 0.75 {
			t.Errorf("Fallback() = %+v, want polaroid-stack at 0.75", got)
		}
	})

	t.Run("long travel story", func(t *testing.T) {
		base := "A long road trip along the coast with stops at small fishing villages. "
		caption := strings.Repeat(base, 10)[:340]
		in := &models.RecordInput{Caption: caption, ImageCount: 6}
		a := an.Analyze(in)
		if a.CaptionLength != 340 || a.MemoryCategory != models.CategoryTravel {
			t.Fatalf("Analyze() = %+v", a)
		}
		if got := Fallback(a); got.Template != models.TemplateScrapbookMixed {
			t.Errorf("Fallback() template = %q, want scrapbook-mixed", got.Template)
		}
	})
}

func TestCatalog(t *testing.T) {
	infos := Catalog()
	if len(infos) != len(models.Templates) {
		t.Fatalf("Catalog() has %d entries, want %d", len(infos), len(models.Templates))
	}
	for i, info := range infos {
		if info.Template != models.Templates[i] {
			t.Errorf("Catalog()[%d] = %q, want %q", i, info.Template, models.Templates[i])
		}
		if info.MaxImages <= 0 || info.Name == "" {
			t.Errorf("Catalog()[%d] incomplete: %+v", i, info)
		}
	}
	infos[0].Name = "changed"
	if Catalog()[0].Name == "changed" {
		t.Error("Catalog() should return a copy")
	}
	if _, ok := Describe(models.Template("grid")); ok {
		t.Error("Describe should reject unknown templates")
	}
}
