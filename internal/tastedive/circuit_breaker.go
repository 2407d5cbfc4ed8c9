// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package tastedive

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tastemap/internal/logging"
	"github.com/tomtom215/tastemap/internal/metrics"
	"github.com/tomtom215/tastemap/internal/models"
)

// Fetcher is the operation shared by Client and CircuitBreakerClient.
type Fetcher interface {
	Fetch(ctx context.Context, q models.RecommendationQuery) (*models.RecommendationSet, error)
	Ping(ctx context.Context) error
}

// CircuitBreakerClient wraps Client so that a failing TasteDive is not
// hammered by every dashboard interaction. It fails fast while open and
// never retries.
//
// Circuit breaker configuration:
//   - Opens after a 60% failure rate with a minimum of 10 requests
//   - Stays open for 30 seconds before probing in half-open state
//   - Allows 3 requests in half-open state
//   - Counts reset every minute while closed
type CircuitBreakerClient struct {
	client Fetcher
	cb     *gobreaker.CircuitBreaker[*models.RecommendationSet]
	name   string
}

var _ Fetcher = (*CircuitBreakerClient)(nil)
var _ Fetcher = (*Client)(nil)

// NewCircuitBreakerClient wraps client with the default breaker settings.
func NewCircuitBreakerClient(client Fetcher) *CircuitBreakerClient {
	return newCircuitBreakerClient(client, 30*time.Second)
}

func newCircuitBreakerClient(client Fetcher, openTimeout time.Duration) *CircuitBreakerClient {
	cbName := "tastedive-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*models.RecommendationSet](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     openTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		// Only transport failures, 5xx statuses and malformed bodies count
		// against TasteDive health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrBlankQuery) || errors.Is(err, context.Canceled) || isRejection(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// isRejection reports whether TasteDive answered and refused the request: a
// 4xx status or an error message in the envelope. A bad key or an exhausted
// quota is the caller's problem, not an outage.
func isRejection(err error) bool {
	var re *RemoteError
	if !errors.As(err, &re) {
		return false
	}
	return (re.StatusCode >= 400 && re.StatusCode < 500) || re.Message != ""
}

// Fetch retrieves recommendations with circuit breaker protection. While the
// circuit is open the error is a *NetworkError wrapping ErrServiceUnavailable.
func (cbc *CircuitBreakerClient) Fetch(ctx context.Context, q models.RecommendationQuery) (*models.RecommendationSet, error) {
	return cbc.execute(func() (*models.RecommendationSet, error) {
		return cbc.client.Fetch(ctx, q)
	})
}

// Ping verifies connectivity with circuit breaker protection.
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() (*models.RecommendationSet, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}

// State returns the breaker state: closed, half-open or open.
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

func (cbc *CircuitBreakerClient) execute(fn func() (*models.RecommendationSet, error)) (*models.RecommendationSet, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, &NetworkError{Op: "circuit breaker", Err: fmt.Errorf("%w: %w", ErrServiceUnavailable, err)}
		}

		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
