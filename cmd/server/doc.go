// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

/*
Package main is the entry point for the Tastemap server.

Tastemap is a single-page dashboard over the TasteDive similarity API. A
visitor picks a category, types something they like and gets a narrative
list with embedded trailers, a table, a YouTube-availability bar chart and
a simulated map of the results.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("tastemap")
	├── UpstreamSupervisor ("upstream-layer")
	│   └── TasteDive probe (only with TASTEDIVE_PROBE_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (dashboard, JSON API, health, metrics)

Initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file, environment
 2. Logging: zerolog with JSON/console output modes
 3. TasteDive client wrapped in a gobreaker circuit breaker
 4. Explorer: dashboard state machine and last-fetch reuse
 5. Supervisor Tree: Suture v4 process supervision
 6. HTTP Server: Chi router with middleware stack

# Configuration

Priority: Environment variables > Config file > Defaults

	TASTEDIVE_KEY=<key>             # API key, sent as the k parameter
	TASTEDIVE_URL=...               # default https://tastedive.com/api/similar
	TASTEDIVE_TIMEOUT=10s
	TASTEDIVE_REQUESTS_PER_SECOND=0 # outbound throttle, 0 disables
	TASTEDIVE_PROBE_INTERVAL=0      # background health probe, 0 pings on demand
	TASTEDIVE_DEFAULT_CATEGORY=music
	TASTEDIVE_DEFAULT_LIMIT=5

	HTTP_PORT=8080
	HTTP_HOST=0.0.0.0
	LOG_LEVEL=info                  # trace, debug, info, warn, error
	LOG_FORMAT=json                 # json or console
	RATE_LIMIT_REQUESTS=100
	RATE_LIMIT_WINDOW=1m

A missing key is not a startup error. TasteDive rejects the request and the
dashboard shows the error notice.

# Signal Handling

SIGINT and SIGTERM cancel the tree. The HTTP server drains in-flight
requests within SHUTDOWN_TIMEOUT and services that fail to stop are
reported.

# Usage

	export TASTEDIVE_KEY=xxxx
	go run ./cmd/server
	open http://localhost:8080/

	curl 'http://localhost:8080/api/v1/recommendations?q=Bruno+Mars&type=music&limit=3'
*/
package main
