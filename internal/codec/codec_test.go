package codec

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/keepsake/internal/decor"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/placement"
	"github.com/hyperjump/keepsake/pkg/utils"
)

func TestRoundTrip(t *testing.T) {
	r := utils.NewRand(17)
	resolver := placement.NewResolver(nil, r)

	var cases []models.PageDecorations
	for _, cat := range models.MemoryCategories {
		raw := decor.Fallback(r, cat, models.ToneRomantic)
		cases = append(cases, raw, resolver.Resolve(raw, models.TemplateCollage))
	}
	cases = append(cases,
		models.PageDecorations{Elements: []models.DecorationElement{}, Theme: "", Mood: models.MoodHeartwarming},
		models.PageDecorations{Elements: []models.DecorationElement{{
			Kind:            models.KindSticker,
			Content:         "BEST DAY",
			Position:        models.Position{X: 0.125, Y: 99.875},
			Size:            models.SizeLarge,
			RotationDegrees: -33.3,
			Opacity:         0.123456789,
			Color:           "#FFD700",
			Layer:           10,
			Scale:           1.37,
			ZIndex:          8,
		}}, Theme: "fun_celebration \"quoted\"", Mood: models.MoodEnergetic},
	)

	for i, want := range cases {
		blob, err := Encode(want)
		if err != nil {
			t.Fatalf("case %d: Encode() error = %v", i, err)
		}
		got, err := Decode(blob)
		if err != nil {
			t.Fatalf("case %d: Decode() error = %v", i, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("case %d: round trip mismatch\n got  %+v\n want %+v", i, got, want)
		}
	}
}

func TestEncode_NilElements(t *testing.T) {
	blob, err := Encode(models.PageDecorations{Mood: models.MoodPeaceful})
	if err != nil {
		t.Fatal(err)
	}
	if blob != `{"elements":[],"theme":"","mood":"peaceful"}` {
		t.Errorf("Encode() = %s", blob)
	}
}

func TestRoundTrip_NilElements(t *testing.T) {
	in := models.PageDecorations{Theme: "daily", Mood: models.MoodPeaceful}
	blob, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, in.Clone()) {
		t.Errorf("Decode(Encode(nil elements)) = %+v, want %+v", got, in.Clone())
	}
	if got.Elements == nil {
		t.Error("decoded elements should be an empty list, not nil")
	}
}

func TestDecodeOrEmpty(t *testing.T) {
	want := models.PageDecorations{Elements: []models.DecorationElement{}, Theme: "", Mood: models.MoodHeartwarming}
	elem := func(body string) string {
		return `{"elements":[` + body + `],"theme":"date","mood":"romantic"}`
	}
	ok := `{"kind":"emoji","content":"💕","position":{"x":85,"y":15},"size":"medium","opacity":0.3,"layer":2}`
	crowded := make([]string, models.MaxElements+1)
	for i := range crowded {
		crowded[i] = ok
	}
	corrupt := []string{
		"", "   ", "{not json", "[1,2,3]", `{"elements": "lots"}`,
		"null",
		"{}",
		`{"elements":[],"theme":"date","mood":"angry"}`,
		elem(strings.Join(crowded, ",")),
		elem(`{"kind":"bogus","content":"x","position":{"x":50,"y":50},"size":"small","opacity":0.3,"layer":2}`),
		elem(`{"kind":"emoji","content":"💕","position":{"x":500,"y":-40},"size":"small","opacity":0.3,"layer":2}`),
		elem(`{"kind":"emoji","content":"💕","position":{"x":50,"y":50},"size":"small","opacity":7,"layer":2}`),
		elem(`{"kind":"emoji","content":"💕","position":{"x":50,"y":50},"size":"small","opacity":0,"layer":2}`),
		elem(`{"kind":"emoji","content":"💕","position":{"x":50,"y":50},"size":"small","opacity":0.3,"layer":99}`),
		elem(`{"kind":"emoji","content":"💕","position":{"x":50,"y":50},"size":"small","opacity":0.3,"layer":0}`),
	}
	for _, blob := range corrupt {
		got := DecodeOrEmpty(blob)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("DecodeOrEmpty(%q) = %+v", blob, got)
		}
		if _, err := Decode(blob); err == nil {
			t.Errorf("Decode(%q) should fail", blob)
		}
	}

	d := DecodeOrEmpty(elem(ok))
	if len(d.Elements) != 1 || d.Mood != models.MoodRomantic || d.Elements[0].Position.X != 85 {
		t.Errorf("DecodeOrEmpty(valid) = %+v", d)
	}
}
