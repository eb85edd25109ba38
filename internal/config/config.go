package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// Values come from environment variables (optionally seeded from .env) with defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Square
	SquareAccessToken string
	SquareBaseURL     string
	SquareVersion     string
	SquareRateLimit   float64 // requests per second, 0 = unlimited
	SquareRateBurst   int

	// Reporting
	Timezone         string
	FetchMaxPages    int
	FetchMaxDuration time.Duration // 0 = no wall-clock limit

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Diagnostics
	SnapshotPath    string
	RecordSnapshots bool

	// Observability
	OTLPEndpoint string
}

var defaults = map[string]any{
	"PORT":      8080,
	"LOG_LEVEL": "info",

	"SQUARE_BASE_URL":   "https://connect.squareup.com",
	"SQUARE_VERSION":    "2024-01-18",
	"SQUARE_RATE_LIMIT": 10.0,
	"SQUARE_RATE_BURST": 5,

	"TIMEZONE":           "America/Denver",
	"FETCH_MAX_PAGES":    200,
	"FETCH_MAX_DURATION": time.Duration(0),

	"HTTP_TIMEOUT": 10 * time.Second,

	"MAX_RETRIES":     3,
	"INITIAL_BACKOFF": 100 * time.Millisecond,
	"MAX_CONCURRENCY": 10,

	"CACHE_TTL": 5 * time.Minute,

	"SNAPSHOT_PATH":    "orders.json",
	"RECORD_SNAPSHOTS": false,

	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:     v.GetInt("PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),

		SquareAccessToken: v.GetString("SQUARE_ACCESS_TOKEN"),
		SquareBaseURL:     v.GetString("SQUARE_BASE_URL"),
		SquareVersion:     v.GetString("SQUARE_VERSION"),
		SquareRateLimit:   v.GetFloat64("SQUARE_RATE_LIMIT"),
		SquareRateBurst:   v.GetInt("SQUARE_RATE_BURST"),

		Timezone:         v.GetString("TIMEZONE"),
		FetchMaxPages:    v.GetInt("FETCH_MAX_PAGES"),
		FetchMaxDuration: v.GetDuration("FETCH_MAX_DURATION"),

		HTTPTimeout: v.GetDuration("HTTP_TIMEOUT"),

		MaxRetries:     v.GetInt("MAX_RETRIES"),
		InitialBackoff: v.GetDuration("INITIAL_BACKOFF"),
		MaxConcurrency: v.GetInt("MAX_CONCURRENCY"),

		CacheTTL: v.GetDuration("CACHE_TTL"),

		SnapshotPath:    v.GetString("SNAPSHOT_PATH"),
		RecordSnapshots: v.GetBool("RECORD_SNAPSHOTS"),

		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.SquareBaseURL == "" {
		errs = append(errs, errors.New("SQUARE_BASE_URL is required"))
	}
	if c.FetchMaxPages < 1 {
		errs = append(errs, fmt.Errorf("FETCH_MAX_PAGES must be positive, got %d", c.FetchMaxPages))
	}
	if c.FetchMaxDuration < 0 {
		errs = append(errs, fmt.Errorf("FETCH_MAX_DURATION must not be negative, got %s", c.FetchMaxDuration))
	}
	if c.SquareRateLimit < 0 {
		errs = append(errs, fmt.Errorf("SQUARE_RATE_LIMIT must not be negative, got %g", c.SquareRateLimit))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("MAX_RETRIES must not be negative, got %d", c.MaxRetries))
	}
	if c.RecordSnapshots && c.SnapshotPath == "" {
		errs = append(errs, errors.New("SNAPSHOT_PATH is required when RECORD_SNAPSHOTS is set"))
	}
	return errors.Join(errs...)
}
