package oracle

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCall(t *testing.T) {
	adaptUpper := func(raw string) Result[string] {
		if raw == "" {
			return Invalid[string]("empty reply")
		}
		return Ok(raw)
	}
	ctx := context.Background()

	tests := []struct {
		name        string
		oracle      Oracle
		wantOK      bool
		wantOutcome string
	}{
		{"nil oracle", nil, false, OutcomeUnavailable},
		{"transport error", Func(func(context.Context, Request) (string, error) {
			return "", errors.New("connection refused")
		}), false, OutcomeError},
		{"unavailable", Func(func(context.Context, Request) (string, error) {
			return "", fmt.Errorf("%w: circuit open", ErrUnavailable)
		}), false, OutcomeUnavailable},
		{"rejected reply", Func(func(context.Context, Request) (string, error) {
			return "", nil
		}), false, OutcomeInvalid},
		{"ok", Func(func(context.Context, Request) (string, error) {
			return "fine", nil
		}), true, OutcomeOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Call(ctx, tt.oracle, Request{Operation: "test", Prompt: "p"}, adaptUpper)
			if res.IsOk() != tt.wantOK {
				t.Errorf("IsOk() = %v, want %v (reason %q)", res.IsOk(), tt.wantOK, res.Reason())
			}
			if res.Outcome() != tt.wantOutcome {
				t.Errorf("Outcome() = %q, want %q", res.Outcome(), tt.wantOutcome)
			}
			if !tt.wantOK && res.Reason() == "" {
				t.Error("rejections should carry a reason")
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Layout string `json:"layout"`
	}
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{"plain", `{"layout":"collage"}`, "collage", false},
		{"fenced", "```json\n{\"layout\": \"magazine\"}\n```", "magazine", false},
		{"prose around", `Sure! {"layout":"photo-album"} Hope this helps.`, "photo-album", false},
		{"no object", "I cannot help with that", "", true},
		{"broken", `{"layout": "collage"`, "", true},
		{"broken inner", `{"layout": collage}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Layout = ""
			err := DecodeJSON(tt.text, &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && out.Layout != tt.want {
				t.Errorf("layout = %q, want %q", out.Layout, tt.want)
			}
		})
	}
}
