// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

// Package tastedive holds the wire types of the TasteDive /api/similar endpoint.
package tastedive

// SimilarResponse represents the API response from TasteDive's similar endpoint.
// Quota and key failures come back as a top-level error string, sometimes with HTTP 200.
type SimilarResponse struct {
	Similar *SimilarBlock `json:"similar,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// SimilarBlock carries the echoed query items and the recommendations.
type SimilarBlock struct {
	Info    []Item `json:"info"`
	Results []Item `json:"results"`
}

// Item is one entry of info or results. The w* and y* fields are only
// populated when info=1 is requested, and may be null even then.
type Item struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	WTeaser *string `json:"wTeaser,omitempty"`
	WURL    *string `json:"wUrl,omitempty"`
	YURL    *string `json:"yUrl,omitempty"`
	YID     *string `json:"yID,omitempty"`
}

// Results returns the recommendation items, or nil when the block is absent.
func (r *SimilarResponse) Results() []Item {
	if r == nil || r.Similar == nil {
		return nil
	}
	return r.Similar.Results
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
