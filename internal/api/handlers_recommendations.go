// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package api

import (
	"errors"
	"net/http"
	"slices"

	"github.com/tomtom215/tastemap/internal/explorer"
	"github.com/tomtom215/tastemap/internal/models"
	"github.com/tomtom215/tastemap/internal/tastedive"
	"github.com/tomtom215/tastemap/internal/viewmodel"
)

// RecommendationsResponse is the JSON form of one dashboard submission.
// Table, Chart and MapPoints are populated only in the rendered state.
type RecommendationsResponse struct {
	State     explorer.State             `json:"state"`
	Query     models.RecommendationQuery `json:"query"`
	View      models.ViewState           `json:"view"`
	Notice    explorer.Notice            `json:"notice"`
	Narrative []viewmodel.NarrativeEntry `json:"narrative"`
	Table     *viewmodel.Table           `json:"table,omitempty"`
	Chart     *viewmodel.ChartData       `json:"chart,omitempty"`
	MapPoints []viewmodel.MapPoint       `json:"map_points"`
	MapNotice string                     `json:"map_notice,omitempty"`
}

func newRecommendationsResponse(page explorer.Page) RecommendationsResponse {
	resp := RecommendationsResponse{
		State:     page.State,
		Query:     page.Query,
		View:      page.View,
		Notice:    page.Notice,
		Narrative: []viewmodel.NarrativeEntry{},
		MapPoints: []viewmodel.MapPoint{},
		MapNotice: page.MapNotice,
	}

	if page.State == explorer.StateRendered && page.Model != nil {
		resp.Narrative = slices.Collect(page.Model.Narrative())
		resp.Table = &page.Table
		resp.Chart = &page.Chart
		if page.MapPoints != nil {
			resp.MapPoints = page.MapPoints
		}
	}

	return resp
}

// Recommendations runs one submission and answers with JSON.
//
// Status codes:
//   - 200: idle, empty_result or rendered
//   - 400: invalid type or overlong q
//   - 502: TasteDive unreachable or answered with an error
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	req := parseRecommendationsRequest(r, h.config.TasteDive)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorWithDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	page := h.explorer.Submit(r.Context(), req.Query(), req.ViewState(), h.newSource())

	if page.State == explorer.StateErrored {
		respondErrorWithDetails(w, http.StatusBadGateway, ErrCodeExternalServiceFail, page.Notice.Message, upstreamErrorDetails(page.Err), nil)
		return
	}

	respondSuccess(w, newRecommendationsResponse(page), models.Metadata{
		QueryTimeMS: page.FetchDuration.Milliseconds(),
		Reused:      page.Reused,
	})
}

// upstreamErrorDetails describes a failed fetch without exposing the raw
// response body.
func upstreamErrorDetails(err error) map[string]interface{} {
	details := map[string]interface{}{"state": explorer.StateErrored.String()}

	var (
		netErr    *tastedive.NetworkError
		remoteErr *tastedive.RemoteError
	)
	switch {
	case errors.As(err, &netErr):
		details["kind"] = "network"
		details["circuit_open"] = errors.Is(err, tastedive.ErrServiceUnavailable)
		details["timeout"] = netErr.Timeout()
	case errors.As(err, &remoteErr):
		details["kind"] = "remote"
		details["status_code"] = remoteErr.StatusCode
	default:
		details["kind"] = "unknown"
	}
	return details
}

// mapBounds is the JSON form of viewmodel.MapBounds.
type mapBounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// MapPointsResponse is the payload of the map points endpoint.
type MapPointsResponse struct {
	Points []viewmodel.MapPoint `json:"points"`
	Bounds mapBounds            `json:"bounds"`
}

// MapPoints draws n simulated points, n clamped to [1,10]. It never contacts
// TasteDive.
func (h *Handler) MapPoints(w http.ResponseWriter, r *http.Request) {
	req := parseMapPointsRequest(r, h.config.TasteDive)

	respondSuccess(w, MapPointsResponse{
		Points: viewmodel.GenerateMapPoints(req.N, h.newSource()),
		Bounds: mapBounds{
			MinLat: viewmodel.MapBounds.MinLat,
			MaxLat: viewmodel.MapBounds.MaxLat,
			MinLon: viewmodel.MapBounds.MinLon,
			MaxLon: viewmodel.MapBounds.MaxLon,
		},
	}, models.Metadata{})
}
