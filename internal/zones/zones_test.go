package zones

import (
	"testing"

	"github.com/hyperjump/keepsake/internal/models"
)

func TestZone_ContainsInclusive(t *testing.T) {
	z := Zone{X1: 15, Y1: 75, X2: 85, Y2: 95, Kind: KindText}
	tests := []struct {
		p    models.Position
		want bool
	}{
		{models.Position{X: 20, Y: 78}, true},
		{models.Position{X: 15, Y: 75}, true},
		{models.Position{X: 85, Y: 95}, true},
		{models.Position{X: 14.9, Y: 80}, false},
		{models.Position{X: 50, Y: 95.1}, false},
	}
	for _, tt := range tests {
		if got := z.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRegistry_TextZones(t *testing.T) {
	r := Default()
	tests := []struct {
		template models.Template
		want     Zone
	}{
		{models.TemplateCollage, Zone{15, 75, 85, 95, KindText}},
		{models.TemplatePolaroidStack, Zone{10, 70, 90, 90, KindText}},
		{models.TemplateMagazine, Zone{15, 65, 85, 85, KindText}},
		{models.TemplatePhotoAlbum, Zone{15, 70, 85, 90, KindText}},
		{models.TemplateScrapbookMixed, Zone{15, 70, 85, 90, KindText}},
	}
	for _, tt := range tests {
		t.Run(string(tt.template), func(t *testing.T) {
			zs := r.TextZones(tt.template)
			if len(zs) != 1 || zs[0] != tt.want {
				t.Errorf("TextZones = %+v, want [%+v]", zs, tt.want)
			}
		})
	}
}

func TestRegistry_PhotoZoneCounts(t *testing.T) {
	r := Default()
	want := map[models.Template]int{
		models.TemplateCollage:        4,
		models.TemplatePolaroidStack:  3,
		models.TemplateMagazine:       3,
		models.TemplatePhotoAlbum:     1,
		models.TemplateScrapbookMixed: 1,
	}
	for tmpl, n := range want {
		if got := len(r.PhotoZones(tmpl)); got != n {
			t.Errorf("%s: %d photo zones, want %d", tmpl, got, n)
		}
	}
}

func TestRegistry_ZonesWithinPage(t *testing.T) {
	r := Default()
	for _, tmpl := range models.Templates {
		for _, z := range r.All(tmpl) {
			if z.X1 < 0 || z.Y1 < 0 || z.X2 > 100 || z.Y2 > 100 || z.X1 > z.X2 || z.Y1 > z.Y2 {
				t.Errorf("%s: zone %+v outside the page", tmpl, z)
			}
		}
	}
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := Default()
	zs := r.TextZones(models.TemplateCollage)
	zs[0].X1 = 99
	if r.TextZones(models.TemplateCollage)[0].X1 != 15 {
		t.Error("mutating a returned slice changed the registry")
	}
}

func TestRegistry_InTextInPhoto(t *testing.T) {
	r := Default()
	p := models.Position{X: 20, Y: 78}
	if !r.InText(models.TemplateCollage, p) {
		t.Error("(20,78) should be in the collage caption zone")
	}
	if !r.InPhoto(models.TemplateCollage, models.Position{X: 30, Y: 30}) {
		t.Error("(30,30) should be in a collage photo zone")
	}
	if r.InText(models.TemplateCollage, models.Position{X: 3, Y: 3}) || r.InPhoto(models.TemplateCollage, models.Position{X: 3, Y: 3}) {
		t.Error("(3,3) should be free on collage")
	}
}
