package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:8001", cfg.CatalogServiceURL)
	assert.Equal(t, 100, cfg.RateLimitRPS)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 30, cfg.CacheTTLSeconds)
}

func TestLoad_EmptyJWTSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestLoad_MissingJWTSecretRejected(t *testing.T) {
	unsetEnv(t, "JWT_SECRET")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

// unsetEnv removes key for the duration of the test, restoring any prior value.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if v, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { os.Setenv(key, v) })
	}
	os.Unsetenv(key)
}

func TestLoad_CacheCanBeDisabled(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GATEWAY_CACHE_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.CacheEnabled)
}
