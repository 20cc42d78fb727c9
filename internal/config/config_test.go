package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FRONTEND_URL", "ALLOWED_ORIGINS", "MODEL_PATH", "HISTORY_LIMIT", "SESSION_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	// Empty numeric values fall back to defaults; PORT and origins must be non-empty.
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HistoryLimit != 5 {
		t.Errorf("Expected history limit 5, got %d", cfg.HistoryLimit)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("Expected session TTL 1h, got %v", cfg.SessionTTL)
	}
	if cfg.RateLimit.RPS != 5 || cfg.RateLimit.Burst != 10 {
		t.Errorf("Unexpected rate limit: %+v", cfg.RateLimit)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", cfg.LogLevel)
	}
	if !cfg.IsDevelopment() {
		t.Error("Expected development mode without FRONTEND_URL")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FRONTEND_URL", "https://biasguard.example")
	t.Setenv("ALLOWED_ORIGINS", "https://biasguard.example, http://localhost:3000 ,")
	t.Setenv("HISTORY_LIMIT", "3")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "2")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"https://biasguard.example", "http://localhost:3000"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("Expected origins %v, got %v", want, cfg.AllowedOrigins)
	}
	if cfg.Port != "9000" || cfg.HistoryLimit != 3 || cfg.SessionTTL != 15*time.Minute {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.RateLimit.RPS != 0.5 || cfg.RateLimit.Burst != 2 {
		t.Errorf("Unexpected rate limit: %+v", cfg.RateLimit)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.LogLevel)
	}
	if cfg.IsDevelopment() {
		t.Error("Expected production mode for public FRONTEND_URL")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", ""},
		{"ALLOWED_ORIGINS", " , "},
		{"HISTORY_LIMIT", "0"},
		{"SESSION_TTL", "-1m"},
		{"RATE_LIMIT_RPS", "0"},
		{"RATE_LIMIT_BURST", "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
