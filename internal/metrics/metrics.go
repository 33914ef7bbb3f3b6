// Package metrics exposes Prometheus instrumentation for runs, the
// result cache and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

const namespace = "mirrorhouse"

// Collector owns a private registry so several collectors can coexist
// in one process.
type Collector struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	runSteps     prometheus.Histogram
	reflections  prometheus.Counter
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Finished runs by outcome.",
			},
			[]string{"outcome"},
		),
		runSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_steps",
				Help:      "Steps taken per run.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		reflections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reflections_total",
				Help:      "Mirror reflections across all runs.",
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Result cache hits.",
			},
		),
		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Result cache misses.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}

	c.registry.MustRegister(
		c.runs,
		c.runSteps,
		c.reflections,
		c.cacheHits,
		c.cacheMisses,
		c.httpRequests,
		c.httpDuration,
	)
	return c
}

// ObserveRun records a finished run.
func (c *Collector) ObserveRun(out mirror.Outcome, reflections int) {
	c.runs.WithLabelValues(out.Kind.String()).Inc()
	c.runSteps.Observe(float64(out.Steps))
	c.reflections.Add(float64(reflections))
}

// CacheHit records a result cache hit.
func (c *Collector) CacheHit() { c.cacheHits.Inc() }

// CacheMiss records a result cache miss.
func (c *Collector) CacheMiss() { c.cacheMisses.Inc() }

// RecordHTTPRequest records one served request. path should be the
// route pattern, not the raw URL.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusLabel := strconv.Itoa(status)
	c.httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	c.httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
