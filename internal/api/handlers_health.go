// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/tastemap/internal/models"
)

// upstreamReachable pings TasteDive. Only transport failures count as
// unreachable.
func (h *Handler) upstreamReachable(r *http.Request) bool {
	return h.upstream != nil && h.upstream.Ping(r.Context()) == nil
}

func (h *Handler) breakerState() string {
	if h.upstream == nil {
		return "unknown"
	}
	return h.upstream.State()
}

// Health handles health check requests. It reports TasteDive reachability,
// the circuit breaker state and uptime. The status is degraded, never an
// error code, when TasteDive cannot be reached.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	reachable := h.upstreamReachable(r)

	status := "healthy"
	if !reachable {
		status = "degraded"
	}

	respondSuccess(w, models.HealthStatus{
		Status:             status,
		Version:            Version,
		TasteDiveReachable: reachable,
		CircuitBreaker:     h.breakerState(),
		APIKeyConfigured:   h.config.TasteDive.APIKey != "",
		Uptime:             time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only when TasteDive answers, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	reachable := h.upstreamReachable(r)

	statusCode := http.StatusOK
	status := "ready"
	if !reachable {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"tastedive_reachable": reachable,
			"circuit_breaker":     h.breakerState(),
			"ready_to_serve":      reachable,
			"uptime":              time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
