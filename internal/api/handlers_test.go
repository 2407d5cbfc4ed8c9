// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package api

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tastemap/internal/config"
	"github.com/tomtom215/tastemap/internal/explorer"
	"github.com/tomtom215/tastemap/internal/models"
	"github.com/tomtom215/tastemap/internal/tastedive"
	"github.com/tomtom215/tastemap/internal/viewmodel"
)

// fakeFetcher answers every query with the same records and remembers the
// last query it saw.
type fakeFetcher struct {
	mu      sync.Mutex
	records []models.RecommendationRecord
	err     error
	calls   int
	last    models.RecommendationQuery
}

func (f *fakeFetcher) Fetch(_ context.Context, q models.RecommendationQuery) (*models.RecommendationSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	return &models.RecommendationSet{Query: q, Records: f.records, FetchedAt: time.Now()}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) lastQuery() models.RecommendationQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// fakeUpstream is a health-check double.
type fakeUpstream struct {
	pingErr error
	state   string
}

func (u *fakeUpstream) Ping(context.Context) error { return u.pingErr }
func (u *fakeUpstream) State() string              { return u.state }

func brunoMarsRecords() []models.RecommendationRecord {
	return []models.RecommendationRecord{
		{Name: "Jason Derulo", InfoURL: "https://en.wikipedia.org/wiki/Jason_Derulo", VideoURL: "https://www.youtube.com/watch?v=abc123"},
		{Name: "Ne-Yo", InfoURL: "https://en.wikipedia.org/wiki/Ne-Yo"},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		TasteDive: config.TasteDiveConfig{
			BaseURL:         config.DefaultTasteDiveURL,
			APIKey:          "test-key",
			Timeout:         time.Second,
			DefaultCategory: "music",
			DefaultLimit:    5,
		},
		Security: config.SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// setupTestHandler creates a handler over fetcher with a seeded map source.
func setupTestHandler(t *testing.T, fetcher explorer.Fetcher, upstream Upstream) *Handler {
	t.Helper()

	h, err := NewHandler(explorer.New(fetcher), upstream, testConfig())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	h.newSource = func() rand.Source { return rand.NewPCG(1, 2) }
	return h
}

func doGet(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func dashboardURL(params url.Values) string {
	return "/?" + params.Encode()
}

// =====================================================
// Dashboard
// =====================================================

func TestDashboard_BlankQueryShowsPrompt(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{records: brunoMarsRecords()}
	h := setupTestHandler(t, fetcher, nil)

	for _, target := range []string{"/", "/?q=", "/?q=+++&type=movie"} {
		rec := doGet(h.Dashboard, target)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", target, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, explorer.PromptMessage) {
			t.Errorf("GET %s body missing idle prompt", target)
		}
		if strings.Contains(body, "Recommendation Table") {
			t.Errorf("GET %s rendered tabs in idle state", target)
		}
	}
	if fetcher.callCount() != 0 {
		t.Errorf("fetcher called %d times for blank queries, want 0", fetcher.callCount())
	}
}

func TestDashboard_RendersAllTabs(t *testing.T) {
	t.Parallel()

	h := setupTestHandler(t, &fakeFetcher{records: brunoMarsRecords()}, nil)

	rec := doGet(h.Dashboard, dashboardURL(url.Values{"q": {"Bruno Mars"}, "type": {"music"}, "limit": {"5"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"TasteDive Explorer Page 🎶",
		"Found 2 recommendations for <strong>Bruno Mars</strong> in <em>music</em>.",
		"🎬 Jason Derulo",
		"🎬 Ne-Yo",
		"More info →",
		"https://www.youtube.com/embed/abc123",
		"Recommendation Table",
		"YouTube Link Availability",
		"Simulated Map of Recommendations",
		"display the map.",
		"This website is powered by TasteDive API",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "<th>wUrl</th>") {
		t.Error("URL columns shown without show_urls")
	}
	if strings.Contains(body, `class="marker"`) {
		t.Error("map markers drawn without map=1")
	}
}

func TestDashboard_SidebarReflectsRequest(t *testing.T) {
	t.Parallel()

	h := setupTestHandler(t, &fakeFetcher{records: brunoMarsRecords()}, nil)

	rec := doGet(h.Dashboard, dashboardURL(url.Values{"q": {"Dune"}, "type": {"book"}, "limit": {"42"}, "show_urls": {"1"}}))
	body := rec.Body.String()

	if !strings.Contains(body, `value="book" checked`) {
		t.Error("book radio not checked")
	}
	if !strings.Contains(body, `value="10"`) {
		t.Error("limit slider not clamped to 10")
	}
	if !strings.Contains(body, `name="show_urls" value="1" checked`) {
		t.Error("show_urls checkbox not checked")
	}
	if !strings.Contains(body, "<th>wUrl</th>") || !strings.Contains(body, "<th>yUrl</th>") {
		t.Error("URL columns missing with show_urls")
	}
}

func TestDashboard_InvalidTypeIsBadRequest(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{records: brunoMarsRecords()}
	h := setupTestHandler(t, fetcher, nil)

	rec := doGet(h.Dashboard, dashboardURL(url.Values{"q": {"Bruno Mars"}, "type": {"podcast"}}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "type must be one of music, movie, show, book, author, game") {
		t.Error("body missing validation message")
	}
	if !strings.Contains(rec.Body.String(), "notice-error") {
		t.Error("validation message not rendered as an error notice")
	}
	if fetcher.callCount() != 0 {
		t.Errorf("fetcher called %d times, want 0", fetcher.callCount())
	}
}

func TestDashboard_EscapesSearchText(t *testing.T) {
	t.Parallel()

	h := setupTestHandler(t, &fakeFetcher{}, nil)

	rec := doGet(h.Dashboard, dashboardURL(url.Values{"q": {"<script>alert(1)</script>"}}))
	body := rec.Body.String()

	if strings.Contains(body, "<script>alert(1)") {
		t.Error("search text rendered unescaped")
	}
	if !strings.Contains(body, "No recommendations found for <strong>&lt;script&gt;alert(1)&lt;/script&gt;</strong> in <em>music</em>.") {
		t.Errorf("empty notice not rendered with escaped text:\n%s", body)
	}
}

func TestDashboard_TogglesReuseLastFetch(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{records: brunoMarsRecords()}
	h := setupTestHandler(t, fetcher, nil)

	base := url.Values{"q": {"Bruno Mars"}, "type": {"music"}, "limit": {"5"}}
	doGet(h.Dashboard, dashboardURL(base))

	toggled := url.Values{"q": {"Bruno Mars"}, "type": {"music"}, "limit": {"5"}, "show_urls": {"on"}, "map": {"1"}}
	rec := doGet(h.Dashboard, dashboardURL(toggled))

	if fetcher.callCount() != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.callCount())
	}
	if got := strings.Count(rec.Body.String(), `class="marker"`); got != 2 {
		t.Errorf("drew %d markers, want 2", got)
	}
}

func TestDashboard_UpstreamErrorRendersNotice(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{err: &tastedive.RemoteError{StatusCode: http.StatusForbidden, Message: "Invalid API key"}}
	h := setupTestHandler(t, fetcher, nil)

	rec := doGet(h.Dashboard, dashboardURL(url.Values{"q": {"Bruno Mars"}}))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "TasteDive returned an error: Invalid API key") {
		t.Error("body missing error notice")
	}
	if strings.Contains(body, "Recommendation Table") {
		t.Error("tabs rendered for an errored submission")
	}
}

func TestRenderNotice(t *testing.T) {
	t.Parallel()

	h := setupTestHandler(t, &fakeFetcher{}, nil)

	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"plain", "Please enter a search term.", "Please enter a search term."},
		{"strong and em", "Found 2 recommendations for **Dune** in *book*.", "Found 2 recommendations for <strong>Dune</strong> in <em>book</em>."},
		{"stars inside strong", "Found 1 recommendations for **M*A*S*H** in *show*.", "Found 1 recommendations for <strong>M*A*S*H</strong> in <em>show</em>."},
		{"markup escaped", "**<b>x</b>**", "<strong>&lt;b&gt;x&lt;/b&gt;</strong>"},
		{"ampersand", "**Simon & Garfunkel**", "<strong>Simon &amp; Garfunkel</strong>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := string(h.renderNotice(tt.msg)); got != tt.want {
				t.Errorf("renderNotice(%q) = %q, want %q", tt.msg, got, tt.want)
			}
		})
	}
}

// =====================================================
// Recommendations JSON
// =====================================================

type recommendationsEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		State     string                     `json:"state"`
		Query     models.RecommendationQuery `json:"query"`
		Notice    explorer.Notice            `json:"notice"`
		Narrative []viewmodel.NarrativeEntry `json:"narrative"`
		Table     *viewmodel.Table           `json:"table"`
		Chart     *viewmodel.ChartData       `json:"chart"`
		MapPoints []viewmodel.MapPoint       `json:"map_points"`
		MapNotice string                     `json:"map_notice"`
	} `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) recommendationsEnvelope {
	t.Helper()
	var env recommendationsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return env
}

func TestRecommendations_Rendered(t *testing.T) {
	t.Parallel()

	h := setupTestHandler(t, &fakeFetcher{records: brunoMarsRecords()}, nil)

	rec := doGet(h.Recommendations, "/api/v1/recommendations?q=Bruno+Mars&type=music&limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	env := decodeEnvelope(t, rec)
	if env.Status != "success" || env.Data.State != "rendered" {
		t.Fatalf("status/state = %q/%q, want success/rendered", env.Status, env.Data.State)
	}
	if env.Data.Notice.Level != explorer.NoticeSuccess {
		t.Errorf("notice level = %q, want success", env.Data.Notice.Level)
	}
	if len(env.Data.Narrative) != 2 {
		t.Fatalf("narrative has %d entries, want 2", len(env.Data.Narrative))
	}
	if first := env.Data.Narrative[0]; first.Name != "Jason Derulo" || first.NameLength != 12 || !first.HasVideo {
		t.Errorf("first narrative entry = %+v", first)
	}
	if env.Data.Table == nil || len(env.Data.Table.Columns) != 1 || env.Data.Table.Columns[0] != "name" {
		t.Errorf("table = %+v, want name column only", env.Data.Table)
	}
	if env.Data.Chart == nil || env.Data.Chart.Buckets[0].Count != 1 || env.Data.Chart.Buckets[1].Count != 1 {
		t.Errorf("chart = %+v, want 1 available and 1 not available", env.Data.Chart)
	}
	if len(env.Data.MapPoints) != 0 || env.Data.MapNotice != explorer.MapHintMessage {
		t.Errorf("map = %v / %q, want no points and the hint", env.Data.MapPoints, env.Data.MapNotice)
	}
	if env.Metadata.Reused {
		t.Error("first submission reported as reused")
	}
}

func TestRecommendations_MapPointsWithinBounds(t *testing.T) {
	t.Parallel()

	h := setupTestHandler(t, &fakeFetcher{records: brunoMarsRecords()}, nil)

	rec := doGet(h.Recommendations, "/api/v1/recommendations?q=Bruno+Mars&map=1&show_urls=1")
	env := decodeEnvelope(t, rec)

	if len(env.Data.MapPoints) != 2 {
		t.Fatalf("got %d map points, want 2", len(env.Data.MapPoints))
	}
	for _, p := range env.Data.MapPoints {
		if p.Lat < 25.5 || p.Lat > 26.5 || p.Lon < -80.5 || p.Lon > -79.5 {
			t.Errorf("point %+v outside bounds", p)
		}
	}
	if got := env.Data.Table.Columns; len(got) != 3 {
		t.Errorf("columns = %v, want name, wUrl, yUrl", got)
	}
}

func TestRecommendations_IdleAndEmpty(t *testing.T) {
	t.Parallel()

	h := setupTestHandler(t, &fakeFetcher{}, nil)

	env := decodeEnvelope(t, doGet(h.Recommendations, "/api/v1/recommendations"))
	if env.Data.State != "idle" || env.Data.Notice.Message != explorer.PromptMessage {
		t.Errorf("blank query: state=%q notice=%q", env.Data.State, env.Data.Notice.Message)
	}

	env = decodeEnvelope(t, doGet(h.Recommendations, "/api/v1/recommendations?q=zzzz&type=game"))
	if env.Data.State != "empty_result" {
		t.Errorf("state = %q, want empty_result", env.Data.State)
	}
	if env.Data.Notice.Message != "No recommendations found for **zzzz** in *game*." {
		t.Errorf("notice = %q", env.Data.Notice.Message)
	}
	if env.Data.Table != nil || env.Data.Chart != nil || len(env.Data.Narrative) != 0 {
		t.Error("empty result populated result views")
	}
}

func TestRecommendations_LimitIsClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit string
		want  int
	}{
		{"50", 10},
		{"0", 1},
		{"-5", 1},
		{"abc", 5},
		{"", 5},
		{"7", 7},
	}

	for _, tt := range tests {
		t.Run("limit="+tt.limit, func(t *testing.T) {
			t.Parallel()
			fetcher := &fakeFetcher{records: brunoMarsRecords()}
			h := setupTestHandler(t, fetcher, nil)

			doGet(h.Recommendations, "/api/v1/recommendations?q=Bruno+Mars&limit="+url.QueryEscape(tt.limit))
			if got := fetcher.lastQuery().Limit; got != tt.want {
				t.Errorf("fetched with limit %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecommendations_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		field  string
	}{
		{"unknown type", "/api/v1/recommendations?q=x&type=podcast", "type"},
		{"overlong query", "/api/v1/recommendations?q=" + strings.Repeat("a", maxQueryLength+1), "q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fetcher := &fakeFetcher{}
			h := setupTestHandler(t, fetcher, nil)

			rec := doGet(h.Recommendations, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Status != "error" || env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
				t.Fatalf("error = %+v, want VALIDATION_ERROR", env.Error)
			}
			if env.Error.Details["field"] != tt.field {
				t.Errorf("details.field = %v, want %s", env.Error.Details["field"], tt.field)
			}
			if fetcher.callCount() != 0 {
				t.Error("fetcher called for an invalid request")
			}
		})
	}
}

func TestRecommendations_UpstreamErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantKind    string
		wantMessage string
	}{
		{
			name:        "network",
			err:         &tastedive.NetworkError{Op: "GET", Err: errors.New("connection refused")},
			wantKind:    "network",
			wantMessage: "Could not reach TasteDive: connection refused",
		},
		{
			name:        "remote",
			err:         &tastedive.RemoteError{StatusCode: http.StatusForbidden, Message: "Invalid API key"},
			wantKind:    "remote",
			wantMessage: "TasteDive returned an error: Invalid API key",
		},
		{
			name:        "circuit open",
			err:         &tastedive.NetworkError{Op: "circuit breaker", Err: tastedive.ErrServiceUnavailable},
			wantKind:    "network",
			wantMessage: "TasteDive is temporarily unavailable. Please try again in a moment.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := setupTestHandler(t, &fakeFetcher{err: tt.err}, nil)

			rec := doGet(h.Recommendations, "/api/v1/recommendations?q=Bruno+Mars")
			if rec.Code != http.StatusBadGateway {
				t.Fatalf("status = %d, want 502", rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != ErrCodeExternalServiceFail {
				t.Fatalf("error = %+v, want EXTERNAL_SERVICE_FAILED", env.Error)
			}
			if env.Error.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", env.Error.Message, tt.wantMessage)
			}
			if env.Error.Details["kind"] != tt.wantKind {
				t.Errorf("details.kind = %v, want %s", env.Error.Details["kind"], tt.wantKind)
			}
		})
	}
}

// =====================================================
// Map points
// =====================================================

func TestMapPoints_CountIsClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		want  int
	}{
		{"n=3", 3},
		{"n=50", 10},
		{"n=0", 1},
		{"", 5},
	}

	h := setupTestHandler(t, &fakeFetcher{}, nil)

	for _, tt := range tests {
		rec := doGet(h.MapPoints, "/api/v1/map-points?"+tt.query)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.query, rec.Code)
		}

		var env struct {
			Data MapPointsResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(env.Data.Points) != tt.want {
			t.Errorf("%s: got %d points, want %d", tt.query, len(env.Data.Points), tt.want)
		}
		if env.Data.Bounds.MinLat != 25.5 || env.Data.Bounds.MaxLon != -79.5 {
			t.Errorf("%s: bounds = %+v", tt.query, env.Data.Bounds)
		}
	}
}

// =====================================================
// Health
// =====================================================

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		upstream   Upstream
		wantStatus string
		wantReach  bool
		wantState  string
	}{
		{"reachable", &fakeUpstream{state: "closed"}, "healthy", true, "closed"},
		{"unreachable", &fakeUpstream{pingErr: errors.New("dial tcp"), state: "open"}, "degraded", false, "open"},
		{"no upstream", nil, "degraded", false, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := setupTestHandler(t, &fakeFetcher{}, tt.upstream)

			rec := doGet(h.Health, "/api/v1/health")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var env struct {
				Data models.HealthStatus `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Data.Status != tt.wantStatus || env.Data.TasteDiveReachable != tt.wantReach || env.Data.CircuitBreaker != tt.wantState {
				t.Errorf("health = %+v", env.Data)
			}
			if !env.Data.APIKeyConfigured {
				t.Error("api_key_configured = false with a key set")
			}
		})
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	ready := setupTestHandler(t, &fakeFetcher{}, &fakeUpstream{state: "closed"})
	if rec := doGet(ready.HealthReady, "/api/v1/health/ready"); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	notReady := setupTestHandler(t, &fakeFetcher{}, &fakeUpstream{pingErr: errors.New("timeout"), state: "closed"})
	rec := doGet(notReady.HealthReady, "/api/v1/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("not ready status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"not_ready"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	h := setupTestHandler(t, &fakeFetcher{}, &fakeUpstream{pingErr: errors.New("down")})
	rec := doGet(h.HealthLive, "/api/v1/health/live")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"alive":true`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
