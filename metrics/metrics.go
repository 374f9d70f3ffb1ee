// Package metrics provides Prometheus metrics for Olleh client operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for client operations.
type Metrics struct {
	enabled bool

	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram

	// Token refresh metrics
	refreshTotal *prometheus.CounterVec

	// Session metrics
	sessionClearsTotal prometheus.Counter

	// Resolver metrics
	resolveTotal *prometheus.CounterVec
}

// New creates and registers Prometheus metrics.
// If enabled is false, returns a no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}

	if !enabled {
		return m
	}

	m.requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olleh_requests_total",
		Help: "Total API requests by method and outcome",
	}, []string{"method", "outcome"})

	m.requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "olleh_request_duration_seconds",
		Help:    "API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	m.refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olleh_token_refresh_total",
		Help: "Total token refresh attempts by outcome",
	}, []string{"outcome"})

	m.sessionClearsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "olleh_session_clears_total",
		Help: "Total forced session clears",
	})

	m.resolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olleh_membership_resolve_total",
		Help: "Total membership status resolutions by resulting state",
	}, []string{"state"})

	return m
}

// RecordRequest records one logical API request.
func (m *Metrics) RecordRequest(method, outcome string, durationSeconds float64) {
	if !m.enabled {
		return
	}
	m.requestsTotal.WithLabelValues(method, outcome).Inc()
	m.requestDuration.Observe(durationSeconds)
}

// RecordRefresh records a token refresh attempt.
func (m *Metrics) RecordRefresh(outcome string) {
	if !m.enabled {
		return
	}
	m.refreshTotal.WithLabelValues(outcome).Inc()
}

// RecordSessionClear records a forced session clear.
func (m *Metrics) RecordSessionClear() {
	if !m.enabled {
		return
	}
	m.sessionClearsTotal.Inc()
}

// RecordResolve records a membership status resolution.
func (m *Metrics) RecordResolve(state string) {
	if !m.enabled {
		return
	}
	m.resolveTotal.WithLabelValues(state).Inc()
}
