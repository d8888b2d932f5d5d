package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != "7001" {
		t.Fatalf("expected default port 7001, got %q", cfg.App.Port)
	}
	if cfg.Auth.SessionTokenTTLDays != 7 {
		t.Fatalf("expected 7 day session TTL, got %d", cfg.Auth.SessionTokenTTLDays)
	}
	if cfg.Auth.ServiceTokenTTLDays != 365 {
		t.Fatalf("expected annual service TTL, got %d", cfg.Auth.ServiceTokenTTLDays)
	}
	if cfg.Drive.BaseURL != "http://localhost:3001" {
		t.Fatalf("unexpected drive base %q", cfg.Drive.BaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DRIVE_BASE_URL", "http://drive.internal/")
	t.Setenv("SESSION_TOKEN_TTL_DAYS", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != "9090" {
		t.Fatalf("expected override port, got %q", cfg.App.Port)
	}
	if cfg.Drive.BaseURL != "http://drive.internal" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Drive.BaseURL)
	}
	if cfg.Auth.SessionTokenTTLDays != 14 {
		t.Fatalf("expected 14, got %d", cfg.Auth.SessionTokenTTLDays)
	}
}
