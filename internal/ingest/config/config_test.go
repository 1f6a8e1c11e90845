package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DedupEnabledByDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.DedupEnabled)
	assert.Equal(t, 24, cfg.DedupTTLHours)
	assert.Equal(t, 8002, cfg.HTTPPort)
}

func TestLoad_DedupCanBeDisabled(t *testing.T) {
	t.Setenv("INGEST_DEDUP_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.DedupEnabled)
}

func TestLoad_InvalidDedupTTL(t *testing.T) {
	t.Setenv("INGEST_DEDUP_TTL_HOURS", "0")

	_, err := Load()
	assert.Error(t, err)
}
