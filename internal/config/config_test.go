package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "storefront")
	t.Setenv("DB_NAME", "storefront")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CatalogBackendPostgres, cfg.Catalog.Backend)
	assert.False(t, cfg.Pricing.LegacyRecompute)
	assert.True(t, cfg.Pricing.EnforceVariantOwnership)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5, cfg.Auth.LoginRateLimit)
	assert.Equal(t, time.Minute, cfg.Auth.LoginRateWindow)
	assert.Equal(t, 720*time.Hour, cfg.Worker.CartTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CATALOG_BACKEND", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("PRICING_LEGACY_RECOMPUTE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CatalogBackendMongo, cfg.Catalog.Backend)
	assert.True(t, cfg.Pricing.LegacyRecompute)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing jwt secret", env: map[string]string{"JWT_SECRET": ""}, want: "JWT_SECRET"},
		{name: "mongo without uri", env: map[string]string{"CATALOG_BACKEND": "mongo"}, want: "MONGO_URI"},
		{name: "unknown backend", env: map[string]string{"CATALOG_BACKEND": "firebase"}, want: "unsupported CATALOG_BACKEND"},
		{name: "bad duration", env: map[string]string{"CART_TTL": "soon"}, want: "CART_TTL"},
		{name: "missing db host", env: map[string]string{"DB_HOST": ""}, want: "database configuration incomplete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("MONGO_URI", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
