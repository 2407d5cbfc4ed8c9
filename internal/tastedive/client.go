// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

/*
Package tastedive is the client for the TasteDive similar-items API.

Each Fetch issues exactly one GET:

	GET {base_url}?q=...&type=...&limit=...&k=...&info=1

and either returns a RecommendationSet (possibly empty) or fails with a
*NetworkError or *RemoteError. Nothing is retried. CircuitBreakerClient adds
fail-fast protection while TasteDive is down; an optional token bucket keeps
outbound traffic inside the key's quota.
*/
package tastedive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tastemap/internal/config"
	"github.com/tomtom215/tastemap/internal/logging"
	"github.com/tomtom215/tastemap/internal/metrics"
	"github.com/tomtom215/tastemap/internal/models"
	wire "github.com/tomtom215/tastemap/internal/models/tastedive"
)

// maxErrorBodySize limits how much of an error response is kept for diagnostics.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client handles communication with the TasteDive HTTP API.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter // nil when unthrottled
	now     func() time.Time
	log     zerolog.Logger
}

// NewClient creates a TasteDive client. The API key is bound here and sent
// as-is on every request, even when empty.
func NewClient(cfg *config.TasteDiveConfig) *Client {
	c := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		now: time.Now,
		log: logging.WithComponent("tastedive"),
	}
	if c.baseURL == "" {
		c.baseURL = config.DefaultTasteDiveURL
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Fetch retrieves recommendations for q. A well-formed answer without results
// yields an empty set, not an error.
func (c *Client) Fetch(ctx context.Context, q models.RecommendationQuery) (*models.RecommendationSet, error) {
	if q.IsBlank() {
		return nil, ErrBlankQuery
	}

	start := time.Now()
	resp, err := c.get(ctx, q)
	duration := time.Since(start)

	if err != nil {
		metrics.RecordTasteDiveFetch(q.Category.String(), outcomeFor(err), duration, 0)
		c.log.Warn().Err(err).
			Str("category", q.Category.String()).
			Int("limit", q.Limit).
			Dur("duration", duration).
			Msg("TasteDive request failed")
		return nil, err
	}

	set := &models.RecommendationSet{
		Query:     q,
		Records:   toRecords(resp.Results()),
		FetchedAt: c.now(),
	}

	outcome := metrics.OutcomeSuccess
	if set.Empty() {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordTasteDiveFetch(q.Category.String(), outcome, duration, set.Len())

	c.log.Debug().
		Str("category", q.Category.String()).
		Int("limit", q.Limit).
		Int("results", set.Len()).
		Dur("duration", duration).
		Msg("TasteDive request completed")

	return set, nil
}

// Ping checks that TasteDive answers at all. Only transport failures are
// reported; any HTTP response, including a quota or key error, counts as
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, models.NewRecommendationQuery("test", models.CategoryMusic, 1))
	if IsNetworkError(err) {
		return err
	}
	return nil
}

// get performs the request and decodes the envelope.
func (c *Client) get(ctx context.Context, q models.RecommendationQuery) (*wire.SimilarResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Op: "throttle", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(q, c.apiKey), http.NoBody)
	if err != nil {
		return nil, &NetworkError{Op: "create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "GET", Err: c.redact(err, q)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBodyForError(resp.Body)
		remoteErr := &RemoteError{StatusCode: resp.StatusCode, Body: string(body)}
		var envelope wire.SimilarResponse
		if json.Unmarshal(body, &envelope) == nil {
			remoteErr.Message = envelope.Error
		}
		return nil, remoteErr
	}

	var envelope wire.SimilarResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Err: err}
	}
	if envelope.Error != "" {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	return &envelope, nil
}

// buildURL constructs the request URL for q using key as the k parameter.
func (c *Client) buildURL(q models.RecommendationQuery, key string) string {
	params := url.Values{}
	params.Set("q", strings.TrimSpace(q.Text))
	params.Set("type", q.Category.String())
	params.Set("limit", strconv.Itoa(models.ClampLimit(q.Limit)))
	params.Set("k", key)
	params.Set("info", "1")

	return c.baseURL + "?" + params.Encode()
}

// redact replaces the URL in a transport error so the API key never reaches
// logs or the rendered page.
func (c *Client) redact(err error, q models.RecommendationQuery) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = c.buildURL(q, "REDACTED")
	}
	return err
}

// toRecords converts wire items, dropping entries without a name. Only the
// name is trimmed; URLs are carried as TasteDive sent them.
func toRecords(items []wire.Item) []models.RecommendationRecord {
	records := make([]models.RecommendationRecord, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		records = append(records, models.RecommendationRecord{
			Name:     name,
			InfoURL:  wire.Deref(item.WURL),
			VideoURL: wire.Deref(item.YURL),
		})
	}
	return records
}

func outcomeFor(err error) string {
	if IsNetworkError(err) {
		return metrics.OutcomeNetworkError
	}
	return metrics.OutcomeRemoteError
}
