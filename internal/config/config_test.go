package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Cache.Expiry)
	assert.Contains(t, cfg.Cache.Dir, ".heritour")
	assert.Contains(t, cfg.Cache.StoreDir, ".heritour")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HERITOUR_API_BASE_URL", "https://api.example.com/v1")
	t.Setenv("HERITOUR_API_TOKEN", "secret")
	t.Setenv("HERITOUR_CACHE_DIR", "/tmp/heritour-assets")
	t.Setenv("HERITOUR_CACHE_EXPIRY", "48h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "/tmp/heritour-assets", cfg.Cache.Dir)
	assert.Equal(t, 48*time.Hour, cfg.Cache.Expiry)
}

func TestLoadRejectsNonPositiveExpiry(t *testing.T) {
	t.Setenv("HERITOUR_CACHE_EXPIRY", "-1h")

	_, err := Load()
	assert.Error(t, err)
}
