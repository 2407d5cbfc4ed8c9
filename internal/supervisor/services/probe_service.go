// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/tastemap/internal/logging"
	"github.com/tomtom215/tastemap/internal/metrics"
)

// ErrNotProbed is returned by Ping before the first probe has completed.
var ErrNotProbed = errors.New("tastedive has not been probed yet")

const defaultProbeTimeout = 5 * time.Second

// Pinger is the reachability surface of the TasteDive circuit breaker client.
type Pinger interface {
	Ping(ctx context.Context) error
	State() string
}

// UpstreamProbeService pings TasteDive on a fixed interval and caches the
// result. Health endpoints read the cache through Ping, so probe traffic
// against the API key's quota stays at one request per interval regardless
// of how often the endpoints are polled.
type UpstreamProbeService struct {
	upstream Pinger
	interval time.Duration
	timeout  time.Duration

	mu          sync.RWMutex
	lastErr     error
	lastChecked time.Time
}

// NewUpstreamProbeService creates a probe for upstream. interval must be
// positive.
func NewUpstreamProbeService(upstream Pinger, interval time.Duration) *UpstreamProbeService {
	timeout := defaultProbeTimeout
	if interval < timeout {
		timeout = interval
	}
	return &UpstreamProbeService{
		upstream: upstream,
		interval: interval,
		timeout:  timeout,
		lastErr:  ErrNotProbed,
	}
}

// Serve implements suture.Service. It probes once immediately and then on
// every tick until ctx is canceled.
func (p *UpstreamProbeService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *UpstreamProbeService) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.upstream.Ping(probeCtx)
	if ctx.Err() != nil {
		// Shutting down; keep the previous result.
		return
	}

	p.mu.Lock()
	changed := p.lastChecked.IsZero() || (err == nil) != (p.lastErr == nil)
	p.lastErr = err
	p.lastChecked = time.Now()
	p.mu.Unlock()

	metrics.RecordUpstreamProbe(err == nil)

	if changed {
		if err != nil {
			logging.Warn().Err(err).Str("circuit_breaker", p.upstream.State()).Msg("TasteDive unreachable")
		} else {
			logging.Info().Msg("TasteDive reachable")
		}
	}
}

// Ping returns the result of the most recent probe without contacting
// TasteDive.
func (p *UpstreamProbeService) Ping(_ context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// State reports the wrapped circuit breaker's state.
func (p *UpstreamProbeService) State() string {
	return p.upstream.State()
}

// LastChecked returns when the last probe completed, or the zero time.
func (p *UpstreamProbeService) LastChecked() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastChecked
}

// String names the service in supervisor events.
func (p *UpstreamProbeService) String() string {
	return "tastedive-probe"
}
