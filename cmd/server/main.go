// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tastemap/internal/api"
	"github.com/tomtom215/tastemap/internal/config"
	"github.com/tomtom215/tastemap/internal/explorer"
	"github.com/tomtom215/tastemap/internal/logging"
	"github.com/tomtom215/tastemap/internal/supervisor"
	"github.com/tomtom215/tastemap/internal/supervisor/services"
	"github.com/tomtom215/tastemap/internal/tastedive"
)

func main() {
	// Config errors go to the default logger; logging is not configured yet.
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Str("tastedive_url", cfg.TasteDive.BaseURL).
		Bool("api_key_configured", cfg.TasteDive.APIKey != "").
		Msg("Starting Tastemap")

	if cfg.TasteDive.APIKey == "" {
		logging.Warn().Msg("TASTEDIVE_KEY is not set; TasteDive will reject every request")
	}

	breaker := tastedive.NewCircuitBreakerClient(tastedive.NewClient(&cfg.TasteDive))

	exp := explorer.New(breaker)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Health endpoints ping on demand unless a probe interval is set.
	var upstream api.Upstream = breaker
	if cfg.TasteDive.ProbeInterval > 0 {
		probe := services.NewUpstreamProbeService(breaker, cfg.TasteDive.ProbeInterval)
		tree.AddUpstreamService(probe)
		upstream = probe
		logging.Info().Dur("interval", cfg.TasteDive.ProbeInterval).Msg("TasteDive probe added to supervisor tree")
	}

	handler, err := api.NewHandler(exp, upstream, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize handlers")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, cfg.Security).SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Tastemap stopped")
}
