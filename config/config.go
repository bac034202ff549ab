package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Browser   BrowserConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls the HTTP fetch strategies (plain session and stealth).
type FetchConfig struct {
	// Timeout is the per-attempt deadline for an HTTP fetch.
	Timeout time.Duration // default: 15s

	// MaxRetries is the attempt ceiling for the plain session strategy.
	// Retries only happen on transient failures (429/5xx, timeouts).
	MaxRetries int // default: 3

	// RetryBackoff is the base delay of the exponential backoff between
	// session retries (doubles per attempt).
	RetryBackoff time.Duration // default: 1s
}

// BrowserConfig controls the headless-browser fetch strategy.
type BrowserConfig struct {
	// Enabled toggles the browser tier entirely. Constrained deployments
	// (no Chromium available) run with the two HTTP strategies only.
	Enabled bool // default: true

	// NavigationTimeout bounds launch + navigation + render.
	NavigationTimeout time.Duration // default: 30s

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// Bin overrides the Chromium binary path.
	Bin string

	// BlockedResourceTypes lists resource types to block during rendering
	// to cut page-load time. default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per client IP.
	Burst int // default: 5
}

// CacheConfig controls the scrape-result cache.
type CacheConfig struct {
	// TTL is how long a cached ProductRecord stays servable.
	TTL time.Duration // default: 1h
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("WISHWELL_HOST", "0.0.0.0"),
			Port: envIntOr("WISHWELL_PORT", 8080),
			Mode: envOr("WISHWELL_MODE", "release"),
		},
		Fetch: FetchConfig{
			Timeout:      envDurationOr("WISHWELL_FETCH_TIMEOUT", 15*time.Second),
			MaxRetries:   envIntOr("WISHWELL_FETCH_RETRIES", 3),
			RetryBackoff: envDurationOr("WISHWELL_FETCH_BACKOFF", time.Second),
		},
		Browser: BrowserConfig{
			Enabled:           envBoolOr("WISHWELL_ENABLE_BROWSER", true),
			NavigationTimeout: envDurationOr("WISHWELL_NAV_TIMEOUT", 30*time.Second),
			NoSandbox:         envBoolOr("WISHWELL_NO_SANDBOX", false),
			Bin:               os.Getenv("WISHWELL_BROWSER_BIN"),
			BlockedResourceTypes: envSliceOr("WISHWELL_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("WISHWELL_RATE_RPS", 2.0),
			Burst:             envIntOr("WISHWELL_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			TTL: envDurationOr("WISHWELL_CACHE_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  envOr("WISHWELL_LOG_LEVEL", "info"),
			Format: envOr("WISHWELL_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
