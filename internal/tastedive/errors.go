// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package tastedive

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrBlankQuery is returned when Fetch is called with empty or
	// whitespace-only text. Callers are expected to short-circuit first.
	ErrBlankQuery = errors.New("tastedive: query text is blank")

	// ErrServiceUnavailable is wrapped in a NetworkError while the circuit
	// breaker is open.
	ErrServiceUnavailable = errors.New("tastedive: service unavailable")
)

// NetworkError reports a transport failure: dial, DNS, timeout, cancellation
// or an open circuit. No HTTP response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("tastedive %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline or transport timeout.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// RemoteError reports an HTTP answer that cannot be used: a non-2xx status,
// a body that is not valid JSON, or a TasteDive error message.
type RemoteError struct {
	StatusCode int

	// Message is the error string reported by TasteDive, if any.
	Message string

	// Body is the raw response body, capped at 64KB, kept for diagnostics.
	Body string

	// Err is the decode error for malformed bodies.
	Err error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("tastedive: remote error (status %d): %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("tastedive: malformed response (status %d): %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("tastedive: unexpected status %d", e.StatusCode)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsRemoteError reports whether err is or wraps a *RemoteError.
func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}
