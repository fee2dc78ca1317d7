// Package metrics provides Prometheus counters for composition, oracle calls, and placement.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service metrics on its own registry. A nil *Collector
// is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	OracleCalls  *prometheus.CounterVec
	Fallbacks    *prometheus.CounterVec
	Compositions *prometheus.CounterVec
	Relocations  *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a collector whose metric names use namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		OracleCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "oracle_calls_total",
				Help:      "Suggestion oracle calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		Fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallbacks_total",
				Help:      "Deterministic fallbacks taken by operation",
			},
			[]string{"operation"},
		),
		Compositions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compositions_total",
				Help:      "Composed pages by template",
			},
			[]string{"template"},
		),
		Relocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "placement_relocations_total",
				Help:      "Decoration elements moved out of reserved zones by zone kind",
			},
			[]string{"zone"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		c.OracleCalls,
		c.Fallbacks,
		c.Compositions,
		c.Relocations,
		c.HTTPRequests,
		c.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// OracleCall counts one oracle call.
func (c *Collector) OracleCall(operation, outcome string) {
	if c == nil {
		return
	}
	c.OracleCalls.WithLabelValues(operation, outcome).Inc()
}

// Fallback counts one fallback.
func (c *Collector) Fallback(operation string) {
	if c == nil {
		return
	}
	c.Fallbacks.WithLabelValues(operation).Inc()
}

// Composition counts one composed page.
func (c *Collector) Composition(template string) {
	if c == nil {
		return
	}
	c.Compositions.WithLabelValues(template).Inc()
}

// Relocated adds n relocations for the zone kind.
func (c *Collector) Relocated(zone string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.Relocations.WithLabelValues(zone).Add(float64(n))
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
