// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

/*
Package models defines the data structures shared across Tastemap.

Key Components:

  - Category: the six TasteDive content domains (music, movie, show, book, author, game)
  - RecommendationQuery: one submitted search, limit clamped to [1,10]
  - RecommendationRecord: one similar item with optional info and video links
  - RecommendationSet: the ordered result of one fetch
  - ViewState: per-interaction display toggles
  - APIResponse: standard JSON response wrapper

Raw TasteDive wire types live in the tastedive subpackage and are converted to
RecommendationRecord once, at the client boundary.
*/
package models
