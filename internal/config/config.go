package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Store backends selectable for carts and the catalog.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StoreHybrid   = "hybrid"
	StorePostgres = "postgres"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr           string
	DBConnString       string
	RedisURL           string
	CartStore          string
	CatalogStore       string
	CartTTL            time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
	LogFormat          string
	LogLevel           string
	MetricsNamespace   string
}

// FromEnv builds Config with defaults, overridden by environment variables and
// an optional .env file.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Config{
		HTTPAddr:           valueOrDefault(k.String("HTTP_ADDR"), ":8080"),
		DBConnString:       k.String("DB_DSN"),
		RedisURL:           k.String("REDIS_URL"),
		CartStore:          strings.ToLower(valueOrDefault(k.String("CART_STORE"), StoreMemory)),
		CatalogStore:       strings.ToLower(valueOrDefault(k.String("CATALOG_STORE"), StoreMemory)),
		CartTTL:            parseDuration(k.String("CART_TTL"), "168h"),
		ShutdownTimeout:    parseSeconds(k.String("SHUTDOWN_TIMEOUT_SECONDS"), 10*time.Second),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		LogFormat:          valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
		MetricsNamespace:   valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "cart_pricing"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every selected backend has its connection settings.
func (c Config) Validate() error {
	switch c.CartStore {
	case StoreMemory:
	case StoreRedis, StoreHybrid:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for CART_STORE=%s", c.CartStore)
		}
	case StorePostgres:
		if c.DBConnString == "" {
			return errors.New("DB_DSN is required for CART_STORE=postgres")
		}
	default:
		return fmt.Errorf("unsupported CART_STORE %q", c.CartStore)
	}
	switch c.CatalogStore {
	case StoreMemory:
	case StorePostgres:
		if c.DBConnString == "" {
			return errors.New("DB_DSN is required for CATALOG_STORE=postgres")
		}
	default:
		return fmt.Errorf("unsupported CATALOG_STORE %q", c.CatalogStore)
	}
	return nil
}

// NeedsPostgres reports whether any backend is Postgres.
func (c Config) NeedsPostgres() bool {
	return c.CartStore == StorePostgres || c.CatalogStore == StorePostgres
}

// NeedsRedis reports whether the cart store uses Redis.
func (c Config) NeedsRedis() bool {
	return c.CartStore == StoreRedis || c.CartStore == StoreHybrid
}

// LoadForTests allows tests to override environment variables without leaking
// them into other tests.
func LoadForTests(values map[string]string) (Config, error) {
	original := make(map[string]*string, len(values))
	for key, value := range values {
		if prev, ok := os.LookupEnv(key); ok {
			original[key] = &prev
		} else {
			original[key] = nil
		}
		if err := os.Setenv(key, value); err != nil {
			return Config{}, err
		}
	}
	defer func() {
		for key, prev := range original {
			if prev == nil {
				_ = os.Unsetenv(key)
				continue
			}
			_ = os.Setenv(key, *prev)
		}
	}()
	return FromEnv()
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseSeconds(value string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(value); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
