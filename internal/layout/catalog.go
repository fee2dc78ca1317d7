package layout

import "github.com/hyperjump/keepsake/internal/models"

// Info describes a template for prompts and for the catalog endpoint.
type Info struct {
	Template    models.Template `json:"template"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
	BestFor     string          `json:"best_for"`
	MaxImages   int             `json:"max_images"`
	Style       string          `json:"style"`
}

var catalog = []Info{
	{
		Template:    models.TemplateCollage,
		Name:        "Collage",
		Description: "Grid-based layout with decorative tape and playful corner decorations",
		Features:    []string{"Grid of 2-4 photos", "Washi tape accents", "Heart and flower corners"},
		BestFor:     "Multiple casual moments, celebrations, fun activities",
		MaxImages:   4,
		Style:       "Playful and decorative",
	},
	{
		Template:    models.TemplatePolaroidStack,
		Name:        "Polaroid Stack",
		Description: "Overlapping polaroid-style photos with handwritten captions",
		Features:    []string{"1-3 overlapping polaroids", "Handwritten-style caption"},
		BestFor:     "Romantic moments, dates, intimate memories",
		MaxImages:   3,
		Style:       "Nostalgic and intimate",
	},
	{
		Template:    models.TemplateMagazine,
		Name:        "Magazine",
		Description: "Hero image with a thumbnail gallery and a story-focused text column",
		Features:    []string{"Hero photo", "Thumbnail gallery", "Paper clip and stamp accents"},
		BestFor:     "Detailed stories, milestones, important events",
		MaxImages:   5,
		Style:       "Clean and structured",
	},
	{
		Template:    models.TemplatePhotoAlbum,
		Name:        "Photo Album",
		Description: "Traditional organized presentation with classic styling",
		Features:    []string{"Ordered photo grid", "Formal caption block"},
		BestFor:     "Formal events, organized memories",
		MaxImages:   6,
		Style:       "Traditional and elegant",
	},
	{
		Template:    models.TemplateScrapbookMixed,
		Name:        "Scrapbook Mixed",
		Description: "Creative, varied positioning for many photos",
		Features:    []string{"Free-form placement", "Mixed photo sizes"},
		BestFor:     "Travel memories, many photos, artistic presentation",
		MaxImages:   8,
		Style:       "Artistic and flexible",
	},
}

// Catalog returns every template's description in display order.
func Catalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// Describe returns the description of t.
func Describe(t models.Template) (Info, bool) {
	for _, info := range catalog {
		if info.Template == t {
			return info, true
		}
	}
	return Info{}, false
}
