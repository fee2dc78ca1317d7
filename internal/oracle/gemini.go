package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Defaults for the Gemini generateContent API.
const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-1.5-flash"
	DefaultTimeout  = 15 * time.Second
)

// GeminiClient calls the Gemini generateContent endpoint and returns the
// first candidate's text.
type GeminiClient struct {
	endpoint   string
	model      string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger // optional; when set, logs debug events
}

// GeminiOption configures a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *GeminiClient) { g.httpClient = c }
}

// WithTimeout bounds each request. Zero keeps the default.
func WithTimeout(d time.Duration) GeminiOption {
	return func(g *GeminiClient) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) GeminiOption {
	return func(g *GeminiClient) { g.logger = l }
}

// NewGeminiClient creates a client. Empty endpoint or model use the defaults.
func NewGeminiClient(endpoint, model, apiKey string, opts ...GeminiOption) *GeminiClient {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	g := &GeminiClient{
		endpoint:   strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		model:      strings.TrimSpace(model),
		apiKey:     strings.TrimSpace(apiKey),
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType"`
}

// Complete sends the prompt and returns the model's text reply.
func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: api key is required", ErrUnavailable)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      req.Temperature,
			MaxOutputTokens:  req.MaxOutputTokens,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.endpoint, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// The key travels only in this header and is never echoed in errors.
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	res, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	if g.logger != nil {
		g.logger.Debug("oracle response",
			zap.String("operation", req.Operation),
			zap.Int("status", res.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := gjson.GetBytes(payload, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(payload))
			if len(msg) > 512 {
				msg = msg[:512]
			}
		}
		return "", fmt.Errorf("generate request status %d: %s", res.StatusCode, msg)
	}
	return extractText(payload)
}

// extractText pulls the first candidate's text out of a generateContent reply.
func extractText(payload []byte) (string, error) {
	if !gjson.ValidBytes(payload) {
		return "", fmt.Errorf("generate response is not valid JSON")
	}
	if reason := gjson.GetBytes(payload, "promptFeedback.blockReason"); reason.Exists() {
		return "", fmt.Errorf("prompt blocked: %s", reason.String())
	}
	parts := gjson.GetBytes(payload, "candidates.0.content.parts.#.text")
	var sb strings.Builder
	for _, p := range parts.Array() {
		sb.WriteString(p.String())
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("generate response missing candidate text")
	}
	return text, nil
}
