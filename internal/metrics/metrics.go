// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

// Package metrics exposes Prometheus instrumentation for the HTTP surface,
// the TasteDive client and its circuit breaker.
//
//	curl http://localhost:8080/metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcome labels for TasteDiveFetchesTotal.
const (
	OutcomeSuccess      = "success"
	OutcomeEmpty        = "empty"
	OutcomeNetworkError = "network_error"
	OutcomeRemoteError  = "remote_error"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// TasteDive Client Metrics
	TasteDiveFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastedive_fetches_total",
			Help: "Total number of TasteDive fetches by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	TasteDiveFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tastedive_fetch_duration_seconds",
			Help:    "TasteDive request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"category"},
	)

	TasteDiveResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tastedive_results_returned",
			Help:    "Number of recommendations returned per successful fetch",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
		},
	)

	// Explorer Metrics
	ExplorerSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explorer_submissions_total",
			Help: "Total number of dashboard submissions by resulting state",
		},
		[]string{"state"},
	)

	ExplorerMemoReuseTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "explorer_memo_reuse_total",
			Help: "Submissions answered from the last fetch without calling TasteDive",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Upstream Probe Metrics
	TasteDiveReachable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tastedive_reachable",
			Help: "Result of the last background TasteDive probe (1=reachable, 0=unreachable)",
		},
	)

	TasteDiveProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastedive_probes_total",
			Help: "Total number of background TasteDive probes by result",
		},
		[]string{"result"}, // result: "ok", "failed"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTasteDiveFetch records one outbound fetch. results is ignored unless
// the outcome is success.
func RecordTasteDiveFetch(category, outcome string, duration time.Duration, results int) {
	TasteDiveFetchesTotal.WithLabelValues(category, outcome).Inc()
	TasteDiveFetchDuration.WithLabelValues(category).Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		TasteDiveResultsReturned.Observe(float64(results))
	}
}

// RecordExplorerSubmission records the state a dashboard submission ended in.
func RecordExplorerSubmission(state string, reused bool) {
	ExplorerSubmissionsTotal.WithLabelValues(state).Inc()
	if reused {
		ExplorerMemoReuseTotal.Inc()
	}
}

// RecordUpstreamProbe records the result of a background reachability probe.
func RecordUpstreamProbe(reachable bool) {
	if reachable {
		TasteDiveReachable.Set(1)
		TasteDiveProbesTotal.WithLabelValues("ok").Inc()
		return
	}
	TasteDiveReachable.Set(0)
	TasteDiveProbesTotal.WithLabelValues("failed").Inc()
}
