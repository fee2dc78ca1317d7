// Package oracle provides the client for the external suggestion service and
// the validating adapter that every response passes through before use.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrUnavailable is returned when the oracle is not configured or its circuit is open.
var ErrUnavailable = errors.New("oracle unavailable")

// Request is one completion request.
type Request struct {
	// Operation names the caller (layout, decorations, story) for logs and metrics.
	Operation       string
	Prompt          string
	Temperature     float64
	MaxOutputTokens int
}

// Oracle is a text-completion service that is asked for a single JSON object.
// Its output is untrusted.
type Oracle interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to the Oracle interface.
type Func func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Adapter validates raw oracle text into T.
type Adapter[T any] func(raw string) Result[T]

// Call sends req to o and validates the reply with adapt. A nil oracle,
// a transport failure, and a rejected reply all come back as non-Ok results.
func Call[T any](ctx context.Context, o Oracle, req Request, adapt Adapter[T]) Result[T] {
	if o == nil {
		return failed[T](OutcomeUnavailable, "oracle not configured")
	}
	text, err := o.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return failed[T](OutcomeUnavailable, err.Error())
		}
		return failed[T](OutcomeError, err.Error())
	}
	return adapt(text)
}

// DecodeJSON extracts the JSON object from text, tolerating surrounding prose
// and markdown code fences, and decodes it into dst.
func DecodeJSON(text string, dst any) error {
	body := ExtractObject(text)
	if body == "" {
		return fmt.Errorf("response contains no JSON object")
	}
	if !gjson.Valid(body) {
		return fmt.Errorf("response is not valid JSON")
	}
	return json.Unmarshal([]byte(body), dst)
}

// ExtractObject returns the outermost {...} span of text, or "" when there is none.
func ExtractObject(text string) string {
	t := strings.TrimSpace(text)
	start := strings.IndexByte(t, '{')
	end := strings.LastIndexByte(t, '}')
	if start < 0 || end <= start {
		return ""
	}
	return t[start : end+1]
}
