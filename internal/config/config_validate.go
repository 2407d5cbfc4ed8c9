// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/tastemap/internal/logging"
	"github.com/tomtom215/tastemap/internal/models"
)

// Validate checks that configuration values are present and valid.
// The TasteDive API key is intentionally not checked.
func (c *Config) Validate() error {
	if err := c.validateTasteDive(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateTasteDive() error {
	if err := validateHTTPURL(c.TasteDive.BaseURL, "TASTEDIVE_URL"); err != nil {
		return fmt.Errorf("TASTEDIVE_URL is invalid: %w", err)
	}
	if c.TasteDive.Timeout <= 0 {
		return fmt.Errorf("TASTEDIVE_TIMEOUT must be positive, got %v", c.TasteDive.Timeout)
	}
	if c.TasteDive.RequestsPerSecond < 0 {
		return fmt.Errorf("TASTEDIVE_REQUESTS_PER_SECOND must be >= 0, got %v", c.TasteDive.RequestsPerSecond)
	}
	if c.TasteDive.ProbeInterval < 0 {
		return fmt.Errorf("TASTEDIVE_PROBE_INTERVAL must be >= 0, got %v", c.TasteDive.ProbeInterval)
	}
	if _, err := models.ParseCategory(c.TasteDive.DefaultCategory); err != nil {
		return fmt.Errorf("TASTEDIVE_DEFAULT_CATEGORY is invalid: %w", err)
	}
	if c.TasteDive.DefaultLimit < models.MinLimit || c.TasteDive.DefaultLimit > models.MaxLimit {
		return fmt.Errorf("TASTEDIVE_DEFAULT_LIMIT must be between %d and %d, got %d",
			models.MinLimit, models.MaxLimit, c.TasteDive.DefaultLimit)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, staging, production, got: %s", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1 when rate limiting is enabled")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL validates that a URL is an absolute http/https endpoint.
// A path is allowed since the TasteDive endpoint lives below /api; query
// parameters are not, as the client owns the query string.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
