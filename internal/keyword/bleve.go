package keyword

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/keepsake/internal/models"
)

// Indexed fields.
const (
	fieldTitle    = "title"
	fieldCaption  = "caption"
	fieldLocation = "location"
	fieldTags     = "tags"
)

var textFields = []string{fieldTitle, fieldCaption, fieldLocation, fieldTags}

// recordDoc is the searchable projection of a record.
type recordDoc struct {
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	Location string `json:"location"`
	Tags     string `json:"tags"`
}

// BleveIndex implements Index using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// reused; remove the directory after changing the mapping to force a rebuild.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func newMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer lowercases and tokenizes without stemming, so names
	// and places match as written.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	for _, f := range textFields {
		docMapping.AddFieldMappingsAt(f, textFieldMapping)
	}
	im.AddDocumentMapping("record", docMapping)
	im.DefaultType = "record"
	im.DefaultMapping = docMapping
	return im
}

// Index indexes a record under its ID, replacing any earlier version.
func (b *BleveIndex) Index(ctx context.Context, rec *models.Record) error {
	doc := recordDoc{
		Title:    rec.Title,
		Caption:  rec.Caption,
		Location: rec.Location,
		Tags:     strings.Join(rec.Tags, " "),
	}
	if err := b.index.Index(rec.ID, doc); err != nil {
		return fmt.Errorf("failed to index record %s: %w", rec.ID, err)
	}
	return nil
}

// Search returns up to limit records matching query, best first.
// With a TitleBoost above 1, title and body scores are computed separately
// and summed with the title share multiplied by the boost.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Result, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return []*Result{}, nil
	}
	titleBoost := 1.0
	fuzziness := 0
	if opts != nil {
		if opts.TitleBoost > 0 {
			titleBoost = opts.TitleBoost
		}
		if opts.FuzzyEnabled {
			fuzziness = 1
			if opts.Fuzziness > 0 {
				fuzziness = opts.Fuzziness
			}
		}
	}

	if titleBoost <= 1.0 {
		hits, err := b.run(ctx, buildQuery(query, fuzziness), limit)
		if err != nil {
			return nil, err
		}
		out := make([]*Result, 0, len(hits))
		for id, score := range hits {
			out = append(out, &Result{ID: id, Score: score})
		}
		return sortResults(out, limit), nil
	}

	reqSize := max(limit*2, 50)
	titleHits, err := b.run(ctx, buildQuery(query, fuzziness, fieldTitle), reqSize)
	if err != nil {
		return nil, err
	}
	bodyHits, err := b.run(ctx, buildQuery(query, fuzziness, fieldCaption, fieldLocation, fieldTags), reqSize)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64, len(titleHits)+len(bodyHits))
	for id, s := range titleHits {
		scores[id] += s * titleBoost
	}
	for id, s := range bodyHits {
		scores[id] += s
	}
	out := make([]*Result, 0, len(scores))
	for id, s := range scores {
		out = append(out, &Result{ID: id, Score: s})
	}
	return sortResults(out, limit), nil
}

func (b *BleveIndex) run(ctx context.Context, q blevequery.Query, size int) (map[string]float64, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = size
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	hits := make(map[string]float64, len(results.Hits))
	for _, hit := range results.Hits {
		hits[hit.ID] = hit.Score
	}
	return hits, nil
}

func sortResults(rs []*Result, limit int) []*Result {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		return rs[i].ID < rs[j].ID
	})
	if len(rs) > limit {
		rs = rs[:limit]
	}
	return rs
}

// tokenizeQuery splits query into lowercase terms.
func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// buildQuery matches any query term in any of fields (all fields when none
// are given). A positive fuzziness uses fuzzy term queries.
func buildQuery(query string, fuzziness int, fields ...string) blevequery.Query {
	if len(fields) == 0 {
		fields = []string{""}
	}
	var queries []blevequery.Query
	for _, field := range fields {
		if fuzziness <= 0 {
			mq := bleve.NewMatchQuery(query)
			if field != "" {
				mq.SetField(field)
			}
			queries = append(queries, mq)
			continue
		}
		for _, term := range tokenizeQuery(query) {
			fq := bleve.NewFuzzyQuery(term)
			fq.SetFuzziness(fuzziness)
			if field != "" {
				fq.SetField(field)
			}
			queries = append(queries, fq)
		}
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Delete removes a record from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// DocCount returns the number of indexed records.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
