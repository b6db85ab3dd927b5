package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"CREM_HTTP_PORT",
			"CREM_SQLITE_DSN",
			"CREM_SHUTDOWN_TIMEOUT",
			"CREM_VERDICT_CACHE_TTL",
			"CREM_CORS_ALLOWED_ORIGINS",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "crem.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.VerdictCacheTTL != 30*time.Second {
			t.Fatalf("expected default verdict cache TTL 30s, got %s", cfg.VerdictCacheTTL)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("CREM_HTTP_PORT", "9090")
		t.Setenv("CREM_SQLITE_DSN", "file:/tmp/crem.db")
		t.Setenv("CREM_SHUTDOWN_TIMEOUT", "30s")
		t.Setenv("CREM_VERDICT_CACHE_TTL", "2m")
		t.Setenv("CREM_CORS_ALLOWED_ORIGINS", "https://penguicon.org, https://staff.penguicon.org")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/crem.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Fatalf("expected shutdown timeout 30s, got %s", cfg.ShutdownTimeout)
		}
		if cfg.VerdictCacheTTL != 2*time.Minute {
			t.Fatalf("expected verdict cache TTL 2m, got %s", cfg.VerdictCacheTTL)
		}
		if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://staff.penguicon.org" {
			t.Fatalf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("reports malformed values together", func(t *testing.T) {
		t.Setenv("CREM_HTTP_PORT", "not-a-port")
		t.Setenv("CREM_SHUTDOWN_TIMEOUT", "soon")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for malformed values")
		}
		expected := "invalid environment variable values: CREM_HTTP_PORT, CREM_SHUTDOWN_TIMEOUT"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
