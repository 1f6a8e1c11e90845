package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.HTTPPort)
	assert.Equal(t, "movies_db", cfg.PostgresDB)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30, cfg.CacheMaxAge)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "9001")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("CATALOG_CACHE_MAX_AGE", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.HTTPPort)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Zero(t, cfg.CacheMaxAge)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_NegativeCacheMaxAge(t *testing.T) {
	t.Setenv("CATALOG_CACHE_MAX_AGE", "-1")

	_, err := Load()
	assert.Error(t, err)
}
