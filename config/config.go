// Package config loads runtime configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all tunables for the monitors, the browser and the HTTP API.
type Config struct {
	// HTTP API
	Port         int
	APIKeys      []string // empty disables auth
	RateLimitRPS float64
	RateBurst    int

	// Browser
	Headless       bool
	BrowserBin     string // empty lets the launcher resolve one
	UserAgent      string
	NavTimeout     time.Duration
	StableTimeout  time.Duration
	BlockResources bool
	PagePoolSize   int

	// Monitors
	DataDir        string
	ScrapeInterval time.Duration
	MaxAnnPages    int
	MaxCRDPages    int
	MaxCreditPages int
	Markets        []string
	EnableGroww    bool
	EnableEconomic bool

	// Logging
	LogLevel  string
	LogFormat string // "json" or "text"
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         envIntOr("PORT", 8000),
		APIKeys:      envSliceOr("API_KEYS", nil),
		RateLimitRPS: envFloatOr("RATE_LIMIT_RPS", 10),
		RateBurst:    envIntOr("RATE_LIMIT_BURST", 20),

		Headless:       envBoolOr("HEADLESS", true),
		BrowserBin:     envOr("BROWSER_BIN", ""),
		UserAgent:      envOr("USER_AGENT", defaultUserAgent),
		NavTimeout:     envDurationOr("NAV_TIMEOUT", 45*time.Second),
		StableTimeout:  envDurationOr("STABLE_TIMEOUT", 15*time.Second),
		BlockResources: envBoolOr("BLOCK_RESOURCES", true),
		PagePoolSize:   envIntOr("PAGE_POOL_SIZE", 4),

		DataDir:        envOr("DATA_DIR", "."),
		ScrapeInterval: envDurationOr("SCRAPE_INTERVAL", 5*time.Minute),
		MaxAnnPages:    envIntOr("MAX_ANNOUNCEMENT_PAGES", 100),
		MaxCRDPages:    envIntOr("MAX_CRD_PAGES", 50),
		MaxCreditPages: envIntOr("MAX_CREDIT_RATING_PAGES", 50),
		Markets:        envSliceOr("MARKETS", []string{"equity"}),
		EnableGroww:    envBoolOr("ENABLE_GROWW_NEWS", true),
		EnableEconomic: envBoolOr("ENABLE_ECONOMIC_CALENDAR", true),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),
	}
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envSliceOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
