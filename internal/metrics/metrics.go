// Package metrics holds the Prometheus collectors for the fetch and cache
// layers. All collectors are registered on the registerer passed to New, so
// embedders control exposure; NewNop gives a throwaway registry for tests
// and for clients that do not expose metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for source requests.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics aggregates the collectors used across the module.
type Metrics struct {
	SourceRequests *prometheus.CounterVec
	SourceDuration *prometheus.HistogramVec
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
}

// New creates and registers the collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SourceRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_source_requests_total",
				Help: "Content source requests by resource and outcome.",
			},
			[]string{"resource", "outcome"},
		),
		SourceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "canopy_source_request_duration_seconds",
				Help:    "Content source round-trip duration.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "canopy_cache_hits_total",
			Help: "Query cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "canopy_cache_misses_total",
			Help: "Query cache misses.",
		}),
	}
	reg.MustRegister(m.SourceRequests, m.SourceDuration, m.CacheHits, m.CacheMisses)
	return m
}

// NewNop returns metrics backed by a private registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveRequest records one source round-trip.
func (m *Metrics) ObserveRequest(resource, outcome string, elapsed time.Duration) {
	m.SourceRequests.WithLabelValues(resource, outcome).Inc()
	m.SourceDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}
