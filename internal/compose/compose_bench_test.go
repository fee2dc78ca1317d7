package compose

import (
	"context"
	"testing"

	"github.com/hyperjump/keepsake/internal/codec"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/pkg/utils"
)

func BenchmarkCompose_Fallback(b *testing.B) {
	c := New(WithRand(utils.NewRand(1)))
	in := &models.RecordInput{
		Title:      "Anniversary",
		Caption:    "You surprised me with a candlelit dinner, I love you so much",
		ImageCount: 3,
		Location:   "Porto",
	}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Compose(ctx, in)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	c := New(WithRand(utils.NewRand(1)))
	in := &models.RecordInput{Caption: "Our first road trip across the coast, we got lost twice and laughed the whole way", ImageCount: 6}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Analyze(in)
	}
}

func BenchmarkCodecRoundTrip(b *testing.B) {
	comp := New(WithRand(utils.NewRand(2))).Compose(context.Background(), &models.RecordInput{
		Caption:    "Birthday party with balloons and cake for the whole family",
		ImageCount: 5,
	})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		blob, err := codec.Encode(comp.Decorations)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := codec.Decode(blob); err != nil {
			b.Fatal(err)
		}
	}
}
