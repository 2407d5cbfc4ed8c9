// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

/*
Package api provides the HTTP layer for Tastemap.

Routes:

  - GET /                            server-rendered dashboard
  - GET /api/v1/recommendations      the same submission as JSON
  - GET /api/v1/map-points?n=        standalone simulated map points
  - GET /api/v1/health[/live|/ready] health probes
  - GET /metrics                     Prometheus exposition

Both the dashboard and the JSON endpoint take the same query parameters:

	q          search text (blank renders the idle prompt)
	type       music, movie, show, book, author or game
	limit      1-10, out-of-range values are clamped
	show_urls  include wUrl and yUrl columns in the table
	map        draw simulated map points

Every request is one synchronous Explorer.Submit. Changing only show_urls or
map reuses the previous fetch.

JSON responses use the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
	{"status": "error", "error": {"code": "EXTERNAL_SERVICE_FAILED", ...}}

Middleware (chi): request ID with logging context, RealIP, Recoverer, CORS
(go-chi/cors), per-IP rate limiting (go-chi/httprate), security headers and
Prometheus request metrics.
*/
package api
