// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

// Package config loads Tastemap configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/tastemap/config.yaml)
//  3. Environment variables (TASTEDIVE_KEY, HTTP_PORT, LOG_LEVEL, ...)
//
// The only secret is the TasteDive API key. It is loaded as-is and never
// validated locally; a missing or wrong key surfaces as a remote error on the
// first request.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	TasteDive TasteDiveConfig `koanf:"tastedive"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// TasteDiveConfig configures the outbound recommendation client and the
// dashboard defaults that feed it.
type TasteDiveConfig struct {
	// BaseURL is the full endpoint, including the /api/similar path.
	BaseURL string `koanf:"base_url"`

	// APIKey is sent as the k query parameter (TASTEDIVE_KEY).
	APIKey string `koanf:"api_key"`

	// Timeout bounds a single outbound request on the transport.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond throttles outbound calls to stay inside the key quota.
	// Zero disables the throttle.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// DefaultCategory preselects the category radio on first load.
	DefaultCategory string `koanf:"default_category"`

	// DefaultLimit preselects the result-count slider on first load (1-10).
	DefaultLimit int `koanf:"default_limit"`

	// ProbeInterval runs a background reachability check at this period and
	// lets the health endpoints read its cached result. Zero makes every
	// health request ping TasteDive directly.
	ProbeInterval time.Duration `koanf:"probe_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// SecurityConfig holds inbound CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings, passed to logging.Init.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
