package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected 24h session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.HistoryWindow != 6 {
		t.Errorf("expected history window 6, got %d", cfg.HistoryWindow)
	}
	if cfg.ContactFormPath != "/contact" {
		t.Errorf("expected /contact, got %s", cfg.ContactFormPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("HISTORY_WINDOW", "10")
	t.Setenv("ALLOWED_ORIGINS", "https://darknebula.dev, https://www.darknebula.dev")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port override, got %s", cfg.Port)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %s", cfg.SessionTTL)
	}
	if !cfg.RedisTLS {
		t.Error("expected redis TLS enabled")
	}
	if cfg.HistoryWindow != 10 {
		t.Errorf("expected history window 10, got %d", cfg.HistoryWindow)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://www.darknebula.dev" {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("HISTORY_WINDOW", "ten")

	cfg := Load()

	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected fallback TTL, got %s", cfg.SessionTTL)
	}
	if cfg.HistoryWindow != 6 {
		t.Errorf("expected fallback window, got %d", cfg.HistoryWindow)
	}
}
