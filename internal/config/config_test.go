package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.CalendarMaxVisible != 2 {
		t.Errorf("CalendarMaxVisible = %d, want 2", cfg.CalendarMaxVisible)
	}
	if cfg.GeocoderTimeout != 10*time.Second {
		t.Errorf("GeocoderTimeout = %v, want 10s", cfg.GeocoderTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, https://app.example.com")
	t.Setenv("GEOCODER_TIMEOUT", "3s")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS = false, want true")
	}
	if cfg.RateLimitBurst != 7 {
		t.Errorf("RateLimitBurst = %d, want 7", cfg.RateLimitBurst)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://app.example.com" {
		t.Errorf("CORSAllowedOrigins = %v, want two trimmed origins", cfg.CORSAllowedOrigins)
	}
	if cfg.GeocoderTimeout != 3*time.Second {
		t.Errorf("GeocoderTimeout = %v, want 3s", cfg.GeocoderTimeout)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_SECOND", "not-a-number")
	t.Setenv("CALENDAR_MAX_VISIBLE", "lots")

	cfg := Load()

	if cfg.RateLimitPerSecond != 20 {
		t.Errorf("RateLimitPerSecond = %v, want default 20", cfg.RateLimitPerSecond)
	}
	if cfg.CalendarMaxVisible != 2 {
		t.Errorf("CalendarMaxVisible = %d, want default 2", cfg.CalendarMaxVisible)
	}
}
