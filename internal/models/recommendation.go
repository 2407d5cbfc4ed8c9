// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Category scopes a TasteDive query to one content domain.
type Category string

const (
	CategoryMusic  Category = "music"
	CategoryMovie  Category = "movie"
	CategoryShow   Category = "show"
	CategoryBook   Category = "book"
	CategoryAuthor Category = "author"
	CategoryGame   Category = "game"
)

// Categories lists every supported category in sidebar order.
var Categories = []Category{
	CategoryMusic,
	CategoryMovie,
	CategoryShow,
	CategoryBook,
	CategoryAuthor,
	CategoryGame,
}

// ParseCategory parses a category name, ignoring case and surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// Result count bounds accepted by TasteDive's limit parameter.
const (
	MinLimit = 1
	MaxLimit = 10
)

// ClampLimit forces n into [MinLimit, MaxLimit].
func ClampLimit(n int) int {
	return max(MinLimit, min(n, MaxLimit))
}

// RecommendationQuery is one submitted search. It is passed by value and
// never modified after construction.
type RecommendationQuery struct {
	Text     string   `json:"q"`
	Category Category `json:"type"`
	Limit    int      `json:"limit"`
}

// NewRecommendationQuery builds a query with the limit clamped to [1,10].
// Text is kept as entered; blank detection is left to IsBlank.
func NewRecommendationQuery(text string, category Category, limit int) RecommendationQuery {
	return RecommendationQuery{
		Text:     text,
		Category: category,
		Limit:    ClampLimit(limit),
	}
}

// IsBlank reports whether the query text is empty or whitespace only.
func (q RecommendationQuery) IsBlank() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Key identifies the query for memoization. Two queries with the same key
// produce the same upstream request.
func (q RecommendationQuery) Key() string {
	return strings.TrimSpace(q.Text) + "\x00" + string(q.Category) + "\x00" + strconv.Itoa(q.Limit)
}

// RecommendationRecord is one similar item. An empty URL means the API did
// not provide it.
type RecommendationRecord struct {
	Name     string `json:"name"`
	InfoURL  string `json:"wUrl"`
	VideoURL string `json:"yUrl"`
}

// NameLength is the number of characters in Name.
func (r RecommendationRecord) NameLength() int {
	return utf8.RuneCountInString(r.Name)
}

// HasVideo reports whether the record carries a YouTube link.
func (r RecommendationRecord) HasVideo() bool {
	return r.VideoURL != ""
}

// HasInfo reports whether the record carries a Wikipedia link.
func (r RecommendationRecord) HasInfo() bool {
	return r.InfoURL != ""
}

// RecommendationSet is the result of one fetch, in API relevance order.
type RecommendationSet struct {
	Query     RecommendationQuery    `json:"query"`
	Records   []RecommendationRecord `json:"records"`
	FetchedAt time.Time              `json:"fetched_at"`
}

// Len returns the number of records. A nil set has length zero.
func (s *RecommendationSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Empty reports whether the fetch found nothing.
func (s *RecommendationSet) Empty() bool {
	return s.Len() == 0
}

// VideoCounts partitions the records by HasVideo. The two counts always sum to Len.
func (s *RecommendationSet) VideoCounts() (withVideo, withoutVideo int) {
	if s == nil {
		return 0, 0
	}
	for _, r := range s.Records {
		if r.HasVideo() {
			withVideo++
		}
	}
	return withVideo, len(s.Records) - withVideo
}

// ViewState holds the per-interaction display toggles. It is rebuilt from
// request parameters every time.
type ViewState struct {
	ShowURLsInTable    bool `json:"show_urls"`
	MapPointsRequested bool `json:"map"`
}
