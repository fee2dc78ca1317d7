package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/keepsake/internal/compose"
	"github.com/hyperjump/keepsake/internal/config"
	"github.com/hyperjump/keepsake/internal/keyword"
	"github.com/hyperjump/keepsake/internal/metrics"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/oracle"
	"github.com/hyperjump/keepsake/internal/records"
	"github.com/hyperjump/keepsake/internal/storage"
	"github.com/hyperjump/keepsake/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type mockWatchService struct {
	dirs []string
}

func (m *mockWatchService) Directories() []string {
	return append([]string(nil), m.dirs...)
}

func (m *mockWatchService) AddDirectory(path string, _ bool) error {
	for _, d := range m.dirs {
		if d == path {
			return nil
		}
	}
	m.dirs = append(m.dirs, path)
	return nil
}

func (m *mockWatchService) RemoveDirectory(path string) error {
	for i, d := range m.dirs {
		if d == path {
			m.dirs = append(m.dirs[:i], m.dirs[i+1:]...)
			return nil
		}
	}
	return nil
}

type testEnv struct {
	srv     *Server
	handler http.Handler
	cfg     *config.Config
	metrics *metrics.Collector
}

func newTestEnv(t *testing.T, o oracle.Oracle, opts ...Option) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{
		DatabasePath: filepath.Join(dir, "keepsake.db"),
		IndexPath:    filepath.Join(dir, "bleve"),
	}}
	config.ApplyDefaults(cfg)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	idx, err := keyword.NewBleveIndex(cfg.Storage.IndexPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	m := metrics.NewCollector("test")
	composer := compose.New(
		compose.WithOracle(o),
		compose.WithRand(utils.NewRand(3)),
		compose.WithMetrics(m),
		compose.WithLogger(zap.NewNop()),
	)
	svc := records.NewService(store, idx, composer, records.WithLogger(zap.NewNop()))
	opts = append([]Option{WithLogger(zap.NewNop()), WithMetrics(m)}, opts...)
	srv := NewServer(svc, cfg, opts...)
	return &testEnv{srv: srv, handler: srv.Router(), cfg: cfg, metrics: m}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, w.Body.String())
	}
}

const dinnerCaption = "You surprised me with a candlelit dinner, I love you so much"

func TestHandleRecommendLayout(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodPost, "/api/v1/recommend-layout", map[string]any{
		"image_count":   1,
		"caption":       dinnerCaption,
		"include_story": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp recommendResponse
	decodeBody(t, w, &resp)
	if resp.Layout.Template != models.TemplatePolaroidStack || resp.Layout.Source != models.SourceFallback {
		t.Errorf("layout = %+v", resp.Layout)
	}
	if resp.Analysis.Tone != models.ToneRomantic {
		t.Errorf("analysis = %+v", resp.Analysis)
	}
	if resp.Story == nil || resp.Story.EnhancedCaption != dinnerCaption {
		t.Errorf("story = %+v, want the caption unchanged without an oracle", resp.Story)
	}
}

func TestHandleRecommendLayout_withOracle(t *testing.T) {
	o := oracle.Func(func(ctx context.Context, req oracle.Request) (string, error) {
		return `{"layout": "MAGAZINE", "reasoning": "long story", "confidence": 0.9}`, nil
	})
	env := newTestEnv(t, o)
	w := env.do(t, http.MethodPost, "/api/v1/recommend-layout", map[string]any{
		"image_count": 2,
		"caption":     "A long afternoon at the museum with the kids",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp recommendResponse
	decodeBody(t, w, &resp)
	if resp.Layout.Template != models.TemplateMagazine || resp.Layout.Confidence != 0.9 {
		t.Errorf("layout = %+v", resp.Layout)
	}
	if resp.Story != nil {
		t.Error("story should be omitted unless requested")
	}
}

func TestHandleRecommendLayout_validation(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		name string
		body any
	}{
		{"malformed", `{"caption":`},
		{"short caption", map[string]any{"image_count": 2, "caption": "too short"}},
		{"no images", map[string]any{"image_count": 0, "caption": dinnerCaption}},
		{"too many images", map[string]any{"image_count": 21, "caption": dinnerCaption}},
		{"long caption", map[string]any{"image_count": 2, "caption": strings.Repeat("a", 2001)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/recommend-layout", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleGenerateDecorations_defaultsUnknownValues(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodPost, "/api/v1/generate-decorations", map[string]any{
		"caption":     "Building sandcastles with my nephew all afternoon",
		"memory_type": "vacation",
		"tone":        "sarcastic",
		"layout":      "grid",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp decorationsResponse
	decodeBody(t, w, &resp)
	if resp.Theme != string(models.CategoryDaily) {
		t.Errorf("theme = %q, want daily", resp.Theme)
	}
	if resp.Mood != models.MoodHeartwarming {
		t.Errorf("mood = %q, want heartwarming for casual tone", resp.Mood)
	}
	if n := len(resp.Elements); n == 0 || n > models.MaxElements {
		t.Errorf("got %d elements", n)
	}
}

func TestHandleEnhanceStory(t *testing.T) {
	o := oracle.Func(func(ctx context.Context, req oracle.Request) (string, error) {
		return `{"enhancedCaption": "You laughed until the sun went down.", "tone": "playful"}`, nil
	})
	env := newTestEnv(t, o)
	w := env.do(t, http.MethodPost, "/api/v1/enhance-story", map[string]any{
		"caption": "We laughed all day at the beach",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var story models.StoryEnhancement
	decodeBody(t, w, &story)
	if story.Tone != models.StoryPlayful || story.WordCount != 7 {
		t.Errorf("story = %+v", story)
	}
}

func TestHandleCatalog(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/api/v1/catalog", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp catalogResponse
	decodeBody(t, w, &resp)
	if len(resp.Templates) != len(models.Templates) {
		t.Errorf("templates = %d, want %d", len(resp.Templates), len(models.Templates))
	}
	if len(resp.Kinds) != len(models.ElementKinds) {
		t.Errorf("kinds = %d, want %d", len(resp.Kinds), len(models.ElementKinds))
	}
	if resp.ThemeColors[models.MoodRomantic] == "" || len(resp.Palettes[models.MoodPlayful]) == 0 {
		t.Error("theme colors and palettes should cover every mood")
	}
	if resp.Layers.Min != 1 || resp.Layers.Max != 10 {
		t.Errorf("layers = %+v", resp.Layers)
	}
	if len(resp.Emoji["Travel"]) == 0 {
		t.Error("emoji groups missing")
	}
}

func TestRecordLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/v1/records", map[string]any{
		"title":       "Anniversary dinner",
		"caption":     dinnerCaption,
		"image_count": 1,
		"tags":        []string{"us"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created createRecordResponse
	decodeBody(t, w, &created)
	id := created.Record.ID
	if id == "" || created.Record.RecommendedLayout != created.Layout.Template {
		t.Fatalf("created = %+v", created)
	}

	w = env.do(t, http.MethodGet, "/api/v1/records/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/v1/records/"+id+"/layout", map[string]any{"layout": "Photo Album", "redecorate": true})
	if w.Code != http.StatusOK {
		t.Fatalf("set layout status = %d, body %s", w.Code, w.Body.String())
	}
	var view records.View
	decodeBody(t, w, &view)
	if view.RecommendedLayout != models.TemplatePhotoAlbum {
		t.Errorf("layout = %q, want photo-album", view.RecommendedLayout)
	}

	w = env.do(t, http.MethodPut, "/api/v1/records/"+id+"/layout", map[string]any{"layout": "grid"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown layout status = %d, want 400", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/v1/records/"+id+"/decorations/regenerate", nil)
	if w.Code != http.StatusOK {
		t.Errorf("regenerate status = %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/v1/records/search", map[string]any{"query": "candlelit"})
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	var result records.SearchResult
	decodeBody(t, w, &result)
	if len(result.Hits) != 1 || result.Hits[0].Record.ID != id {
		t.Errorf("search hits = %+v", result.Hits)
	}

	w = env.do(t, http.MethodGet, "/api/v1/records?limit=5", nil)
	var list struct {
		Records []records.View `json:"records"`
		Total   int64          `json:"total"`
	}
	decodeBody(t, w, &list)
	if list.Total != 1 || len(list.Records) != 1 {
		t.Errorf("list = %+v", list)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/records/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/v1/records/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
	w = env.do(t, http.MethodDelete, "/api/v1/records/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestHandleCreateRecord_validation(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodPost, "/api/v1/records", map[string]any{"caption": "short", "image_count": 1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "caption" {
		t.Errorf("fields = %+v", resp.Fields)
	}
}

func TestHandleStatusHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, nil)
	if w := env.do(t, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status status = %d", w.Code)
	}
	var status map[string]any
	decodeBody(t, w, &status)
	if status["records"] != float64(0) {
		t.Errorf("records = %v", status["records"])
	}
	if _, ok := status["disk_usage_bytes"]; !ok {
		t.Error("status should report disk usage")
	}

	if got := testutil.ToFloat64(env.metrics.HTTPRequests.WithLabelValues("GET", "/api/v1/status", "200")); got != 1 {
		t.Errorf("http_requests_total for status = %v, want 1", got)
	}
	w = env.do(t, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "test_http_requests_total") {
		t.Errorf("metrics endpoint did not serve collector output (status %d)", w.Code)
	}
}

func TestHandleInboxDirectories_notEnabled(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/api/v1/inbox/directories", nil)
	if w.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", w.Code)
	}
}

func TestHandleInboxDirectories(t *testing.T) {
	mock := &mockWatchService{dirs: []string{"/tmp/inbox"}}
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	env := newTestEnv(t, nil, WithWatch(mock, configPath))

	w := env.do(t, http.MethodGet, "/api/v1/inbox/directories", nil)
	var out struct {
		Directories []string `json:"directories"`
	}
	decodeBody(t, w, &out)
	if len(out.Directories) != 1 || out.Directories[0] != "/tmp/inbox" {
		t.Errorf("directories = %v", out.Directories)
	}

	added := t.TempDir()
	w = env.do(t, http.MethodPost, "/api/v1/inbox/directories", map[string]any{"path": added, "sync": false})
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body.String())
	}
	if len(mock.dirs) != 2 {
		t.Errorf("watch dirs = %v", mock.dirs)
	}
	saved, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config not persisted: %v", err)
	}
	if !strings.Contains(string(saved), added) {
		t.Errorf("persisted config missing %s:\n%s", added, saved)
	}

	w = env.do(t, http.MethodPost, "/api/v1/inbox/directories", map[string]any{"path": filepath.Join(added, "missing")})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing dir status = %d, want 404", w.Code)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/inbox/directories?path="+added, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove status = %d", w.Code)
	}
	if len(mock.dirs) != 1 {
		t.Errorf("watch dirs after remove = %v", mock.dirs)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/inbox/directories", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("remove without path status = %d, want 400", w.Code)
	}
}
