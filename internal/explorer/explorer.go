// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

// Package explorer runs one dashboard interaction: it decides whether to
// fetch, remembers the last fetched set, and assembles every view for the page.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tastemap/internal/logging"
	"github.com/tomtom215/tastemap/internal/metrics"
	"github.com/tomtom215/tastemap/internal/models"
	"github.com/tomtom215/tastemap/internal/tastedive"
	"github.com/tomtom215/tastemap/internal/viewmodel"
)

// Fetcher retrieves recommendations. tastedive.Client,
// tastedive.CircuitBreakerClient satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, q models.RecommendationQuery) (*models.RecommendationSet, error)
}

// Page is everything the dashboard needs to render one interaction.
// Model, Table, Chart and MapPoints are only populated when State is
// StateRendered.
type Page struct {
	State     State
	Query     models.RecommendationQuery
	View      models.ViewState
	Notice    Notice
	Model     *viewmodel.ViewModel
	Table     viewmodel.Table
	Chart     viewmodel.ChartData
	MapPoints []viewmodel.MapPoint
	MapNotice string
	Err       error

	// Reused is true when the last fetch answered this submission.
	Reused bool

	// FetchDuration is the upstream latency, zero when reused or idle.
	FetchDuration time.Duration
}

// Explorer holds the one-slot memo of the last completed fetch so that
// toggling a view option does not call TasteDive again.
type Explorer struct {
	fetcher Fetcher

	mu   sync.Mutex
	memo *models.RecommendationSet
}

// New returns an Explorer backed by fetcher.
func New(fetcher Fetcher) *Explorer {
	return &Explorer{fetcher: fetcher}
}

// Submit runs one interaction. Blank text returns an Idle page without a
// fetch. A query equal to the memoized one reuses its set. A failed fetch
// leaves the memo as it was. src seeds the map points; nil draws fresh ones.
func (e *Explorer) Submit(ctx context.Context, q models.RecommendationQuery, view models.ViewState, src rand.Source) Page {
	page := Page{Query: q, View: view}

	if q.IsBlank() {
		e.Reset()
		page.State = StateIdle
		page.Notice = Notice{Level: NoticeInfo, Message: PromptMessage}
		e.finish(ctx, &page)
		return page
	}

	set, reused, err := e.load(ctx, q, &page)
	page.Reused = reused

	switch {
	case err != nil:
		page.State = StateErrored
		page.Err = err
		page.Notice = Notice{Level: NoticeError, Message: errorMessage(err)}
	case set.Empty():
		page.State = StateEmptyResult
		page.Notice = Notice{
			Level:   NoticeWarning,
			Message: fmt.Sprintf("No recommendations found for **%s** in *%s*.", displayText(q), q.Category),
		}
	default:
		page.State = StateRendered
		page.Notice = Notice{
			Level:   NoticeSuccess,
			Message: fmt.Sprintf("Found %d recommendations for **%s** in *%s*.", set.Len(), displayText(q), q.Category),
		}
		vm := viewmodel.Build(set)
		page.Model = &vm
		page.Table = viewmodel.ProjectTable(vm, view.ShowURLsInTable)
		page.Chart = vm.Chart()
		if view.MapPointsRequested {
			page.MapPoints = vm.MapPoints(src)
		} else {
			page.MapNotice = MapHintMessage
		}
	}

	e.finish(ctx, &page)
	return page
}

// Reset forgets the memoized set.
func (e *Explorer) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.memo = nil
}

// load returns the memoized set for q or fetches a new one. The lock is not
// held during the fetch.
func (e *Explorer) load(ctx context.Context, q models.RecommendationQuery, page *Page) (*models.RecommendationSet, bool, error) {
	e.mu.Lock()
	memo := e.memo
	e.mu.Unlock()

	if memo != nil && memo.Query.Key() == q.Key() {
		return memo, true, nil
	}

	logging.Ctx(ctx).Debug().
		Str("state", StateFetching.String()).
		Str("category", q.Category.String()).
		Int("limit", q.Limit).
		Msg("Fetching recommendations")

	start := time.Now()
	set, err := e.fetcher.Fetch(ctx, q)
	page.FetchDuration = time.Since(start)
	if err != nil {
		return nil, false, err
	}
	if set == nil {
		set = &models.RecommendationSet{Query: q}
	}

	e.mu.Lock()
	e.memo = set
	e.mu.Unlock()

	return set, false, nil
}

func (e *Explorer) finish(ctx context.Context, page *Page) {
	metrics.RecordExplorerSubmission(page.State.String(), page.Reused)

	logger := logging.Ctx(ctx).With().Str("component", "explorer").Logger()
	var event *zerolog.Event
	if page.State == StateErrored {
		event = logger.Warn().Err(page.Err)
	} else {
		event = logger.Debug()
	}
	event.
		Str("state", page.State.String()).
		Str("category", page.Query.Category.String()).
		Int("limit", page.Query.Limit).
		Bool("reused", page.Reused).
		Bool("show_urls", page.View.ShowURLsInTable).
		Bool("map", page.View.MapPointsRequested).
		Msg("Submission handled")
}

func displayText(q models.RecommendationQuery) string {
	return strings.TrimSpace(q.Text)
}

// errorMessage renders err for the page banner.
func errorMessage(err error) string {
	var (
		netErr    *tastedive.NetworkError
		remoteErr *tastedive.RemoteError
	)
	switch {
	case errors.Is(err, tastedive.ErrServiceUnavailable):
		return "TasteDive is temporarily unavailable. Please try again in a moment."
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return "TasteDive did not answer in time. Please try again."
		}
		return fmt.Sprintf("Could not reach TasteDive: %v", netErr.Err)
	case errors.As(err, &remoteErr):
		if remoteErr.Message != "" {
			return "TasteDive returned an error: " + remoteErr.Message
		}
		if remoteErr.Err != nil {
			return "TasteDive returned a response that could not be read."
		}
		return fmt.Sprintf("TasteDive returned HTTP %d.", remoteErr.StatusCode)
	default:
		return fmt.Sprintf("Request failed: %v", err)
	}
}
