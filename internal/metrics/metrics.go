// Package metrics exposes Prometheus instrumentation for sync runs, the GitHub
// client, the project read cache and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync Operation Metrics
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcphubs_sync_runs_total",
			Help: "Total number of sync runs by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	SyncItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcphubs_sync_items_total",
			Help: "Total number of sync candidates by result",
		},
		[]string{"result"}, // "inserted", "updated", "error"
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mcphubs_sync_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mcphubs_sync_last_success_timestamp",
			Help: "Unix timestamp of last successful sync",
		},
	)

	SyncPositionOffset = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mcphubs_sync_position_offset",
			Help: "Current offset of the sync cursor",
		},
	)

	// GitHub Client Metrics
	GithubRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcphubs_github_requests_total",
			Help: "Total number of GitHub API calls by operation and result class",
		},
		[]string{"operation", "result"}, // result: "ok", "not_found", "transient", "config"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mcphubs_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcphubs_cache_hits_total",
			Help: "Total number of project cache hits",
		},
		[]string{"strategy"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcphubs_cache_misses_total",
			Help: "Total number of project cache misses",
		},
		[]string{"strategy"},
	)

	ReadFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcphubs_read_fallbacks_total",
			Help: "Reads served by a fallback source",
		},
		[]string{"source"}, // "live", "placeholder"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcphubs_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcphubs_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcphubs_api_auth_failures_total",
			Help: "Admin requests refused by the API key check",
		},
		[]string{"reason"}, // "not_configured", "invalid_key"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
