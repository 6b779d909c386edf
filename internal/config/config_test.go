package config

import (
	"testing"
	"time"
)

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("API_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode")
	}
	if cfg.APIBaseURL != DevBaseURL {
		t.Errorf("expected dev base URL %q, got %q", DevBaseURL, cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("expected no request timeout by default, got %v", cfg.RequestTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate_ProductionRequiresExplicitURL(t *testing.T) {
	cfg := &Config{Env: "production"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing API_BASE_URL in production")
	}
}

func TestValidate_ProductionRequiresHTTPS(t *testing.T) {
	cfg := &Config{Env: "production", APIBaseURL: "http://clinic.example.com/api/accounts"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for plain http in production")
	}

	cfg.APIBaseURL = "https://clinic.example.com/api/accounts"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate_RejectsBadScheme(t *testing.T) {
	cfg := &Config{Env: "development", APIBaseURL: "ftp://clinic.example.com"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-http scheme")
	}
}

func TestValidate_RejectsNegativeTimeout(t *testing.T) {
	cfg := &Config{Env: "development", APIBaseURL: DevBaseURL, RequestTimeout: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestBaseURL_TrimsTrailingSlash(t *testing.T) {
	cfg := &Config{APIBaseURL: "https://clinic.example.com/api/accounts/"}
	if got := cfg.BaseURL(); got != "https://clinic.example.com/api/accounts" {
		t.Errorf("unexpected base URL %q", got)
	}
}
