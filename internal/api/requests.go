// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/tastemap/internal/config"
	"github.com/tomtom215/tastemap/internal/models"
)

// maxQueryLength bounds the search text accepted from the sidebar.
const maxQueryLength = 200

// RecommendationsRequest holds the query parameters shared by the dashboard
// and the recommendations endpoint.
//
// Limit is not validated: like the sidebar slider it is clamped to [1,10].
type RecommendationsRequest struct {
	Text     string `query:"q" validate:"max=200"`
	Category string `query:"type" validate:"required,category"`
	Limit    int    `query:"limit"`
	ShowURLs bool   `query:"show_urls"`
	Map      bool   `query:"map"`
}

// parseRecommendationsRequest reads the sidebar parameters, filling type and
// limit from defaults when absent.
func parseRecommendationsRequest(r *http.Request, defaults config.TasteDiveConfig) RecommendationsRequest {
	q := r.URL.Query()

	category := strings.TrimSpace(q.Get("type"))
	if category == "" {
		category = defaults.DefaultCategory
	}

	return RecommendationsRequest{
		Text:     q.Get("q"),
		Category: category,
		Limit:    getIntParam(r, "limit", defaults.DefaultLimit),
		ShowURLs: getBoolParam(r, "show_urls"),
		Map:      getBoolParam(r, "map"),
	}
}

// Query converts a validated request into a RecommendationQuery.
func (req RecommendationsRequest) Query() models.RecommendationQuery {
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		category = models.CategoryMusic
	}
	return models.NewRecommendationQuery(req.Text, category, req.Limit)
}

// ViewState returns the display toggles of the request.
func (req RecommendationsRequest) ViewState() models.ViewState {
	return models.ViewState{
		ShowURLsInTable:    req.ShowURLs,
		MapPointsRequested: req.Map,
	}
}

// MapPointsRequest holds the parameters of the map points endpoint. N is
// clamped rather than validated.
type MapPointsRequest struct {
	N int `query:"n"`
}

func parseMapPointsRequest(r *http.Request, defaults config.TasteDiveConfig) MapPointsRequest {
	return MapPointsRequest{N: models.ClampLimit(getIntParam(r, "n", defaults.DefaultLimit))}
}
