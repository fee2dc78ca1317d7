package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("keepsake_test")
	c.OracleCall("layout", "ok")
	c.OracleCall("layout", "invalid")
	c.OracleCall("layout", "invalid")
	c.Fallback("decorations")
	c.Composition("collage")
	c.Relocated("text", 2)
	c.Relocated("photo", 0)

	if got := testutil.ToFloat64(c.OracleCalls.WithLabelValues("layout", "invalid")); got != 2 {
		t.Errorf("invalid oracle calls = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Fallbacks.WithLabelValues("decorations")); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Relocations.WithLabelValues("text")); got != 2 {
		t.Errorf("text relocations = %v, want 2", got)
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.OracleCall("layout", "ok")
	c.Fallback("layout")
	c.Composition("collage")
	c.Relocated("text", 1)
	c.ObserveHTTP(http.MethodGet, "/health", 200, time.Millisecond)
	if c.Registry() != nil {
		t.Error("nil collector should have no registry")
	}
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("nil collector handler status = %d, want 404", w.Code)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("keepsake_test")
	c.Composition("magazine")
	c.ObserveHTTP(http.MethodPost, "/api/v1/records", 201, 5*time.Millisecond)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`keepsake_test_compositions_total{template="magazine"} 1`,
		`keepsake_test_http_requests_total{method="POST",route="/api/v1/records",status="201"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
