package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the dashboard backend.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	derivations     *prometheus.CounterVec
	rateFallbacks   prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "networth_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "networth_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "networth_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "networth_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		derivations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "networth_derivations_total",
				Help: "Total derivation computations by kind.",
			},
			[]string{"kind"},
		),
		rateFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "networth_rate_fallbacks_total",
				Help: "Conversions served unconverted because a rate was unavailable.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrDerivation counts one derivation computation of the given kind
// (entries, value_change, chart_data, projection).
func (m *Metrics) IncrDerivation(kind string) {
	m.derivations.WithLabelValues(kind).Inc()
}

// IncrRateFallback counts a conversion that passed the amount through
// because no rate was available for the requested month.
func (m *Metrics) IncrRateFallback() {
	m.rateFallbacks.Inc()
}

// CacheHitCount returns the current hit count for a cache label. Used by
// tests asserting on recorded metrics.
func (m *Metrics) CacheHitCount(cache string) float64 {
	return counterValue(m.cacheHits, cache)
}

// CacheMissCount returns the current miss count for a cache label.
func (m *Metrics) CacheMissCount(cache string) float64 {
	return counterValue(m.cacheMisses, cache)
}

// counterValue extracts the current float64 value from a CounterVec for a
// given label.
func counterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
