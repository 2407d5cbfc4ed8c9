// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateHTTPURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"default endpoint", "https://tastedive.com/api/similar", ""},
		{"local mock with port", "http://127.0.0.1:8089/api/similar", ""},
		{"bare host", "https://tastedive.com", ""},
		{"wrong scheme", "ftp://tastedive.com/api/similar", "scheme"},
		{"no scheme", "tastedive.com/api/similar", "scheme"},
		{"missing host", "https:///api/similar", "host"},
		{"query string", "https://tastedive.com/api/similar?k=abc", "query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateHTTPURL(tt.url, "TASTEDIVE_URL")
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateHTTPURL(%q) unexpected error: %v", tt.url, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateHTTPURL(%q) error = %v, want mention of %q", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RateLimitDisabledSkipsChecks(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Security.RateLimitReqs = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rate limit")
	}

	cfg.Security.RateLimitDisabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled rate limit should skip checks, got %v", err)
	}
}

func TestValidate_NegativeRequestsPerSecond(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.TasteDive.RequestsPerSecond = -1
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "TASTEDIVE_REQUESTS_PER_SECOND") {
		t.Errorf("Validate() error = %v, want TASTEDIVE_REQUESTS_PER_SECOND", err)
	}
}

func TestValidate_NegativeProbeInterval(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.TasteDive.ProbeInterval = -time.Second
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "TASTEDIVE_PROBE_INTERVAL") {
		t.Errorf("Validate() error = %v, want TASTEDIVE_PROBE_INTERVAL", err)
	}
}

func TestServerConfigAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
	if s.IsProduction() {
		t.Error("empty environment should not be production")
	}
	s.Environment = "production"
	if !s.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}
