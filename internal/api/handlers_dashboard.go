// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package api

import (
	"bytes"
	"embed"
	"html"
	"html/template"
	"net/http"
	"regexp"
	"slices"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/tomtom215/tastemap/internal/explorer"
	"github.com/tomtom215/tastemap/internal/logging"
	"github.com/tomtom215/tastemap/internal/models"
	"github.com/tomtom215/tastemap/internal/viewmodel"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

func parseDashboardTemplate() (*template.Template, error) {
	return template.New("dashboard.html.tmpl").
		Funcs(template.FuncMap{
			"pct": func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
		}).
		ParseFS(templateFS, "templates/dashboard.html.tmpl")
}

// emphasisPattern matches the **strong** and *em* markers used in notices.
var emphasisPattern = regexp.MustCompile(`\*\*(.+?)\*\*|\*([^*]+?)\*`)

// newNoticePolicy allows only the emphasis elements renderNotice produces.
func newNoticePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("strong", "em")
	return p
}

// renderNotice turns a notice message into HTML. The text is escaped before
// the emphasis markers are expanded, so search text cannot inject markup.
func (h *Handler) renderNotice(msg string) template.HTML {
	escaped := html.EscapeString(msg)
	expanded := emphasisPattern.ReplaceAllStringFunc(escaped, func(m string) string {
		sub := emphasisPattern.FindStringSubmatch(m)
		if sub[1] != "" {
			return "<strong>" + sub[1] + "</strong>"
		}
		return "<em>" + sub[2] + "</em>"
	})
	return template.HTML(h.sanitizer.Sanitize(expanded)) //nolint:gosec // sanitized to strong/em only
}

type categoryOption struct {
	Value   string
	Checked bool
}

type mapMarker struct {
	viewmodel.MapPoint
	X, Y float64 // percent offsets inside the map box
}

type dashboardData struct {
	Page           explorer.Page
	NoticeHTML     template.HTML
	Categories     []categoryOption
	Text           string
	Limit          int
	MinLimit       int
	MaxLimit       int
	MaxQueryLength int
	ShowURLs       bool
	Narrative      []viewmodel.NarrativeEntry
	Markers        []mapMarker
	HasResults     bool
}

// Dashboard renders the explorer page for the sidebar parameters. Upstream
// failures render the error notice with 200; an invalid type is a 400.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	req := parseRecommendationsRequest(r, h.config.TasteDive)

	status := http.StatusOK
	var page explorer.Page
	if apiErr := validateRequest(&req); apiErr != nil {
		status = http.StatusBadRequest
		page = explorer.Page{
			State:  explorer.StateErrored,
			Query:  models.NewRecommendationQuery(req.Text, models.Category(h.config.TasteDive.DefaultCategory), req.Limit),
			View:   req.ViewState(),
			Notice: explorer.Notice{Level: explorer.NoticeError, Message: apiErr.Message},
		}
	} else {
		page = h.explorer.Submit(r.Context(), req.Query(), req.ViewState(), h.newSource())
	}

	h.renderDashboard(w, r, status, h.dashboardData(page))
}

func (h *Handler) dashboardData(page explorer.Page) dashboardData {
	data := dashboardData{
		Page:           page,
		NoticeHTML:     h.renderNotice(page.Notice.Message),
		Text:           page.Query.Text,
		Limit:          page.Query.Limit,
		MinLimit:       models.MinLimit,
		MaxLimit:       models.MaxLimit,
		MaxQueryLength: maxQueryLength,
		ShowURLs:       page.View.ShowURLsInTable,
		HasResults:     page.State == explorer.StateRendered,
	}

	for _, c := range models.Categories {
		data.Categories = append(data.Categories, categoryOption{
			Value:   c.String(),
			Checked: c == page.Query.Category,
		})
	}

	if page.Model != nil {
		data.Narrative = slices.Collect(page.Model.Narrative())
	}

	for _, p := range page.MapPoints {
		data.Markers = append(data.Markers, mapMarker{
			MapPoint: p,
			X:        (p.Lon - viewmodel.MapBounds.MinLon) / (viewmodel.MapBounds.MaxLon - viewmodel.MapBounds.MinLon) * 100,
			Y:        (viewmodel.MapBounds.MaxLat - p.Lat) / (viewmodel.MapBounds.MaxLat - viewmodel.MapBounds.MinLat) * 100,
		})
	}

	return data
}

// renderDashboard executes into a buffer first so a template error never
// leaves a half-written page behind.
func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, data dashboardData) {
	var buf bytes.Buffer
	if err := h.dashboard.Execute(&buf, data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to execute dashboard template")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write dashboard")
	}
}
