package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("FEATURED_COUNT", "2")

	path := writeConfig(t, `
port: "5000"
logLevel: "info"
environment: "development"
jwtSecret: "file-secret"
sessionTTL: "24h"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Fatalf("jwtSecret = %q, want env override", cfg.JWTSecret)
	}
	if cfg.SessionTTL != "12h" {
		t.Fatalf("sessionTTL = %q, want 12h", cfg.SessionTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("bcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.FeaturedCount != 2 {
		t.Fatalf("featuredCount = %d, want 2", cfg.FeaturedCount)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `jwtSecret: "s3cret"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5000" {
		t.Fatalf("port = %q, want 5000", cfg.Port)
	}
	if cfg.CookieName != "token" {
		t.Fatalf("cookieName = %q, want token", cfg.CookieName)
	}
	if cfg.Environment != EnvDevelopment {
		t.Fatalf("environment = %q, want development", cfg.Environment)
	}
	if cfg.CookieSecure() {
		t.Fatalf("development must not force secure cookies")
	}
	ttl, err := ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		t.Fatalf("parse ttl: %v", err)
	}
	if ttl != 24*time.Hour {
		t.Fatalf("ttl = %v, want 24h", ttl)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	path := writeConfig(t, `port: "5000"`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected startup error for missing jwtSecret")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad_environment", "jwtSecret: s\nenvironment: staging\n"},
		{"bad_bcrypt_cost", "jwtSecret: s\nbcryptCost: 2\n"},
		{"bad_ttl", "jwtSecret: s\nsessionTTL: nope\n"},
		{"negative_ttl", "jwtSecret: s\nsessionTTL: -1h\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestCookieSecureInProduction(t *testing.T) {
	path := writeConfig(t, "jwtSecret: s\nenvironment: production\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.CookieSecure() {
		t.Fatalf("production must force secure cookies")
	}
}
