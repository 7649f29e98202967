// Package config loads the process configuration from the environment (and an
// optional .env file) into an explicit Config value built once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StoreMode selects where run rows come from.
type StoreMode string

const (
	StoreModeFixture  StoreMode = "fixture"
	StoreModeSupabase StoreMode = "supabase"
	StoreModePostgres StoreMode = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Supabase  SupabaseConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Dashboard DashboardConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	AllowOrigins string
}

// LoggingConfig holds logrus settings.
type LoggingConfig struct {
	Level  string
	Format string
}

// SupabaseConfig holds the store URL and key. Either value missing puts the
// listing service into fixture mode.
type SupabaseConfig struct {
	URL string
	Key string
}

// Configured reports whether both connection values are present.
func (c SupabaseConfig) Configured() bool {
	return c.URL != "" && c.Key != ""
}

// DatabaseConfig holds an optional direct Postgres DSN.
type DatabaseConfig struct {
	URL string
}

// CacheConfig holds the optional Redis page cache settings.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// RateLimitConfig holds the API token bucket. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// DashboardConfig holds settings for the dashboard client.
type DashboardConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

// StoreMode picks the backing store once, at construction time.
func (c *Config) StoreMode() StoreMode {
	switch {
	case c.Database.URL != "":
		return StoreModePostgres
	case c.Supabase.Configured():
		return StoreModeSupabase
	default:
		return StoreModeFixture
	}
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         envOrDefault("PORT", "8080"),
			AllowOrigins: envOrDefault("CORS_ALLOW_ORIGINS", "*"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
			Format: strings.ToLower(envOrDefault("LOG_FORMAT", "json")),
		},
		Supabase: SupabaseConfig{
			URL: strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			Key: firstEnv("SUPABASE_KEY", "SUPABASE_SERVICE_KEY", "SUPABASE_ANON_KEY"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Cache: CacheConfig{
			RedisURL: os.Getenv("REDIS_URL"),
		},
		Dashboard: DashboardConfig{
			APIBaseURL: strings.TrimRight(envOrDefault("API_BASE_URL", "http://localhost:8080"), "/"),
		},
	}

	var err error
	if cfg.Cache.TTL, err = parseDurationEnv("CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Dashboard.Timeout, err = parseDurationEnv("DASHBOARD_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimit.RPS, err = parseFloatEnv("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = parseIntEnv("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", cfg.Logging.Format)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func parseIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
