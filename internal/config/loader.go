package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the service.
type Config struct {
	HTTPPort           int
	SQLiteDSN          string
	ShutdownTimeout    time.Duration
	VerdictCacheTTL    time.Duration
	CORSAllowedOrigins []string
}

// Load parses configuration values from the current process environment.
//
// Every field has a sensible default; values that are present but malformed
// are reported together rather than one at a time.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:           8080,
		SQLiteDSN:          "crem.db",
		ShutdownTimeout:    10 * time.Second,
		VerdictCacheTTL:    30 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("CREM_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "CREM_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("CREM_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("CREM_SHUTDOWN_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "CREM_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("CREM_VERDICT_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "CREM_VERDICT_CACHE_TTL")
		} else {
			cfg.VerdictCacheTTL = ttl
		}
	}

	if origins := strings.TrimSpace(os.Getenv("CREM_CORS_ALLOWED_ORIGINS")); origins != "" {
		cfg.CORSAllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
		if len(cfg.CORSAllowedOrigins) == 0 {
			invalid = append(invalid, "CREM_CORS_ALLOWED_ORIGINS")
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}
