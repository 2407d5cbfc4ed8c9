// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package models

import (
	"time"
)

// APIResponse represents the standardized wrapper used by all JSON endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "EXTERNAL_SERVICE_FAILED",
//	    "message": "TasteDive request failed",
//	    "details": {"status_code": 403}
//	  },
//	  "metadata": {"timestamp": "2026-10-14T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
// QueryTimeMS is the upstream fetch time; it is 0 when the last fetch was reused.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Reused      bool      `json:"reused,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - EXTERNAL_SERVICE_FAILED: TasteDive unreachable or answered with an error
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - NOT_FOUND: Unknown route
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status             string  `json:"status"`
	Version            string  `json:"version"`
	TasteDiveReachable bool    `json:"tastedive_reachable"`
	CircuitBreaker     string  `json:"circuit_breaker"`
	APIKeyConfigured   bool    `json:"api_key_configured"`
	Uptime             float64 `json:"uptime"`
}
