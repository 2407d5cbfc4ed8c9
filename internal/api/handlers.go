// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package api

import (
	"context"
	"fmt"
	"html/template"
	"math/rand/v2"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/tomtom215/tastemap/internal/config"
	"github.com/tomtom215/tastemap/internal/explorer"
)

// Version is reported by the health endpoint. It is overridden at build time.
var Version = "dev"

// Upstream is the TasteDive dependency as seen by the health endpoints.
// tastedive.CircuitBreakerClient and services.UpstreamProbeService satisfy it.
type Upstream interface {
	Ping(ctx context.Context) error
	State() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_dashboard.go: server-rendered dashboard
//   - handlers_recommendations.go: JSON recommendations and map points
//   - handlers_health.go: health probes
type Handler struct {
	explorer  *explorer.Explorer
	upstream  Upstream
	config    *config.Config
	startTime time.Time
	dashboard *template.Template
	sanitizer *bluemonday.Policy

	// newSource returns the randomness for map points. A nil source means a
	// freshly seeded generator per request.
	newSource func() rand.Source
}

// NewHandler creates the API handler. The dashboard template is parsed
// here so a broken template fails startup instead of the first request.
//
// Example:
//
//	handler, err := api.NewHandler(explorer.New(client), client, cfg)
//	router := api.NewRouter(handler, cfg.Security)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(exp *explorer.Explorer, upstream Upstream, cfg *config.Config) (*Handler, error) {
	tmpl, err := parseDashboardTemplate()
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}

	return &Handler{
		explorer:  exp,
		upstream:  upstream,
		config:    cfg,
		startTime: time.Now(),
		dashboard: tmpl,
		sanitizer: newNoticePolicy(),
		newSource: func() rand.Source { return nil },
	}, nil
}
