package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.APIBaseURL == "" {
		t.Fatalf("expected a default base URL")
	}
	if cfg.HTTPTimeout <= 0 {
		t.Fatalf("expected a bounded default timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.TokenBackend != "file" && cfg.TokenBackend != "redis" {
		t.Fatalf("unexpected token backend: %q", cfg.TokenBackend)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.internal:9000")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("REDIS_TOKEN_KEY", "custom:jwt")

	cfg := Load()

	if cfg.APIBaseURL != "http://api.internal:9000" {
		t.Fatalf("unexpected base URL: %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.HTTPTimeout)
	}
	if cfg.Redis.Key != "custom:jwt" {
		t.Fatalf("unexpected redis key: %q", cfg.Redis.Key)
	}
}
