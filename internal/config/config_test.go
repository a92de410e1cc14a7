package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"HTTP_ADDR":  "",
		"CART_STORE": "",
		"CART_TTL":   "",
	})
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.CartStore)
	assert.Equal(t, StoreMemory, cfg.CatalogStore)
	assert.Equal(t, 168*time.Hour, cfg.CartTTL)
	assert.False(t, cfg.NeedsPostgres())
	assert.False(t, cfg.NeedsRedis())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"HTTP_ADDR":                ":9090",
		"CART_STORE":               "Hybrid",
		"REDIS_URL":                "redis://localhost:6379/0",
		"CART_TTL":                 "2h",
		"SHUTDOWN_TIMEOUT_SECONDS": "3",
		"CORS_ALLOWED_ORIGINS":     "http://a.test, ,http://b.test",
	})
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, StoreHybrid, cfg.CartStore)
	assert.True(t, cfg.NeedsRedis())
	assert.Equal(t, 2*time.Hour, cfg.CartTTL)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "memory", cfg: Config{CartStore: StoreMemory, CatalogStore: StoreMemory}},
		{name: "redis without url", cfg: Config{CartStore: StoreRedis, CatalogStore: StoreMemory}, wantErr: "REDIS_URL"},
		{name: "postgres carts without dsn", cfg: Config{CartStore: StorePostgres, CatalogStore: StoreMemory}, wantErr: "DB_DSN"},
		{name: "postgres catalog without dsn", cfg: Config{CartStore: StoreMemory, CatalogStore: StorePostgres}, wantErr: "DB_DSN"},
		{name: "unknown cart store", cfg: Config{CartStore: "disk", CatalogStore: StoreMemory}, wantErr: "unsupported CART_STORE"},
		{name: "postgres ok", cfg: Config{CartStore: StorePostgres, CatalogStore: StorePostgres, DBConnString: "postgres://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
