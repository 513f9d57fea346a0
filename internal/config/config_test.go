package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 10, cfg.Analytics.RecentLimit)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenDuration)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
database:
  path: /tmp/ledger.db
cache:
  backend: none
analytics:
  recentLimit: 5
`), 0o600))

	t.Setenv("ANALYTICS_CONCURRENCY", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 5, cfg.Analytics.RecentLimit)
	assert.Equal(t, 8, cfg.Analytics.Concurrency)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")
	t.Setenv("ANALYTICS_RECENT_LIMIT", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache backend")
	assert.Contains(t, err.Error(), "recent limit")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
