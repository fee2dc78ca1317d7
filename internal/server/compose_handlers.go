package server

import (
	"net/http"

	"github.com/hyperjump/keepsake/internal/compose"
	"github.com/hyperjump/keepsake/internal/decor"
	"github.com/hyperjump/keepsake/internal/layout"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/placement"
	"go.uber.org/zap"
)

// additionalContext carries the optional record details sent with a caption.
type additionalContext struct {
	Title    string   `json:"title,omitempty" validate:"max=200"`
	Date     string   `json:"date,omitempty"`
	Location string   `json:"location,omitempty" validate:"max=200"`
	Tags     []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

type recommendRequest struct {
	ImageCount        int               `json:"image_count" validate:"gte=1,lte=20"`
	Caption           string            `json:"caption" validate:"required,caption"`
	AdditionalContext additionalContext `json:"additional_context"`
	IncludeStory      bool              `json:"include_story"`
}

type recommendResponse struct {
	Layout   models.LayoutChoice      `json:"layout"`
	Analysis models.ContentAnalysis   `json:"analysis"`
	Story    *models.StoryEnhancement `json:"story,omitempty"`
}

func recordInput(caption string, imageCount int, ac additionalContext) *models.RecordInput {
	in := &models.RecordInput{
		Title:      ac.Title,
		Caption:    caption,
		ImageCount: imageCount,
		Date:       ac.Date,
		Location:   ac.Location,
		Tags:       ac.Tags,
	}
	in.Normalize()
	return in
}

func (s *Server) handleRecommendLayout(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	in := recordInput(req.Caption, req.ImageCount, req.AdditionalContext)
	s.logger.Debug("layout recommendation request",
		zap.Int("image_count", req.ImageCount),
		zap.Int("caption_length", len([]rune(in.Caption))),
		zap.Bool("include_story", req.IncludeStory),
	)
	analysis, choice := s.composer.Recommend(r.Context(), in)
	resp := recommendResponse{Layout: choice, Analysis: analysis}
	if req.IncludeStory {
		story := s.composer.EnhanceStory(r.Context(), in)
		resp.Story = &story
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type decorationsRequest struct {
	Caption           string            `json:"caption" validate:"required,caption"`
	MemoryType        string            `json:"memory_type"`
	Tone              string            `json:"tone"`
	Layout            string            `json:"layout"`
	AdditionalContext additionalContext `json:"additional_context"`
}

type decorationsResponse struct {
	models.PageDecorations
	Placement placement.Report `json:"placement"`
}

func (s *Server) handleGenerateDecorations(w http.ResponseWriter, r *http.Request) {
	var req decorationsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	// Unknown values fall back to the defaults rather than failing the request.
	category := models.MemoryCategory(req.MemoryType)
	if !category.Valid() {
		category = models.CategoryDaily
	}
	tone := models.Tone(req.Tone)
	if !tone.Valid() {
		tone = models.ToneCasual
	}
	tmpl, ok := models.ParseTemplate(req.Layout)
	if !ok {
		tmpl = models.TemplateCollage
	}
	s.logger.Debug("decoration request",
		zap.String("memory_type", string(category)),
		zap.String("tone", string(tone)),
		zap.String("layout", string(tmpl)),
	)
	placed, rep := s.composer.Decorate(r.Context(), compose.DecorateRequest{
		Caption:  req.Caption,
		Category: category,
		Tone:     tone,
		Template: tmpl,
		Title:    req.AdditionalContext.Title,
		Location: req.AdditionalContext.Location,
		Date:     req.AdditionalContext.Date,
	})
	s.respondJSON(w, http.StatusOK, decorationsResponse{PageDecorations: placed, Placement: rep})
}

type storyRequest struct {
	Caption           string            `json:"caption" validate:"required,caption"`
	AdditionalContext additionalContext `json:"additional_context"`
}

func (s *Server) handleEnhanceStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	story := s.composer.EnhanceStory(r.Context(), recordInput(req.Caption, 0, req.AdditionalContext))
	s.respondJSON(w, http.StatusOK, story)
}

type catalogKind struct {
	Kind       models.ElementKind `json:"kind"`
	Primitives []string           `json:"primitives"`
}

type layerRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type catalogResponse struct {
	Templates   []layout.Info                           `json:"templates"`
	Kinds       []catalogKind                           `json:"kinds"`
	Emoji       map[string][]string                     `json:"emoji"`
	ThemeColors map[models.Mood]string                  `json:"theme_colors"`
	Palettes    map[models.Mood][]string                `json:"palettes"`
	Sizes       map[models.ElementSize]decor.SizeMetric `json:"sizes"`
	Layers      layerRange                              `json:"layers"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	resp := catalogResponse{
		Templates:   layout.Catalog(),
		Kinds:       make([]catalogKind, 0, len(models.ElementKinds)),
		Emoji:       decor.SuggestedEmoji(),
		ThemeColors: make(map[models.Mood]string, len(models.Moods)),
		Palettes:    make(map[models.Mood][]string, len(models.Moods)),
		Sizes:       decor.SizeMetrics(),
		Layers:      layerRange{Min: models.MinLayer, Max: models.MaxLayer},
	}
	for _, k := range models.ElementKinds {
		prims := decor.Primitives(k)
		if prims == nil {
			prims = []string{}
		}
		resp.Kinds = append(resp.Kinds, catalogKind{Kind: k, Primitives: prims})
	}
	for _, m := range models.Moods {
		resp.ThemeColors[m] = decor.ThemeColor(m)
		resp.Palettes[m] = decor.Palette(m)
	}
	s.respondJSON(w, http.StatusOK, resp)
}
