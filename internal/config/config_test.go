package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "ALLOWED_ORIGIN", "ACCESS_TOKEN_TTL_MINUTES", "STRICT_NATIONAL_ID", "ALLOW_NATIONAL_ID_UPDATE", "AUTH_SECRET"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.AllowedOrigin != "http://127.0.0.1:3000" {
		t.Errorf("unexpected default origin %q", cfg.AllowedOrigin)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Errorf("expected default TTL 480, got %d", cfg.AccessTokenTTLMinutes)
	}
	if cfg.StrictNationalID || cfg.AllowNationalIDUpdate {
		t.Error("validation flags must default to off")
	}
	if cfg.AuthSecret != "" {
		t.Errorf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
	if cfg.Address() != ":8080" {
		t.Errorf("unexpected address %q", cfg.Address())
	}
}

func TestLoadParsesValidationFlags(t *testing.T) {
	t.Setenv("STRICT_NATIONAL_ID", "true")
	t.Setenv("ALLOW_NATIONAL_ID_UPDATE", "1")

	cfg := Load()
	if !cfg.StrictNationalID || !cfg.AllowNationalIDUpdate {
		t.Fatalf("expected both flags on, got %+v", cfg)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "not-a-number")
	t.Setenv("STRICT_NATIONAL_ID", "frequently")

	cfg := Load()
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Errorf("expected TTL fallback 480, got %d", cfg.AccessTokenTTLMinutes)
	}
	if cfg.StrictNationalID {
		t.Error("malformed bool must fall back to default")
	}
}
