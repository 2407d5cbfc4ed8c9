// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

// Package viewmodel turns a RecommendationSet into the data behind the four
// dashboard views: narrative, table, chart and map. Everything here is a pure
// function of its inputs except GenerateMapPoints, which draws random points.
package viewmodel

import (
	"iter"
	"net/url"
	"strings"

	"github.com/tomtom215/tastemap/internal/models"
)

// ViewModel is the shared input of every view. It does not copy the records;
// the set must not be modified after Build.
type ViewModel struct {
	set *models.RecommendationSet
}

// Build wraps set for rendering. A nil set behaves as an empty one.
func Build(set *models.RecommendationSet) ViewModel {
	if set == nil {
		set = &models.RecommendationSet{}
	}
	return ViewModel{set: set}
}

// Len returns the number of records.
func (vm ViewModel) Len() int { return vm.set.Len() }

// Records returns the records in API order.
func (vm ViewModel) Records() []models.RecommendationRecord { return vm.set.Records }

// Query returns the query that produced the set.
func (vm ViewModel) Query() models.RecommendationQuery { return vm.set.Query }

// NarrativeEntry is one item in the Results tab.
type NarrativeEntry struct {
	Name          string `json:"name"`
	NameLength    int    `json:"name_length"`
	InfoURL       string `json:"wUrl,omitempty"`
	VideoURL      string `json:"yUrl,omitempty"`
	VideoEmbedURL string `json:"embed_url,omitempty"`
	HasInfo       bool   `json:"has_info"`
	HasVideo      bool   `json:"has_video"`
}

// Narrative yields one entry per record. The sequence may be ranged over any
// number of times.
func (vm ViewModel) Narrative() iter.Seq[NarrativeEntry] {
	return func(yield func(NarrativeEntry) bool) {
		for _, r := range vm.set.Records {
			entry := NarrativeEntry{
				Name:       r.Name,
				NameLength: r.NameLength(),
				InfoURL:    r.InfoURL,
				VideoURL:   r.VideoURL,
				HasInfo:    r.HasInfo(),
				HasVideo:   r.HasVideo(),
			}
			if entry.HasVideo {
				entry.VideoEmbedURL = EmbedURL(r.VideoURL)
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// EmbedURL converts a YouTube watch, short or youtu.be link into its
// /embed/ form. Anything else, including links that already embed, is
// returned unchanged.
func EmbedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	}

	if id == "" || strings.Contains(id, "/") {
		return raw
	}
	return "https://www.youtube.com/embed/" + url.PathEscape(id)
}
