package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "leadscout.db", cfg.Store.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://www.instagram.com", cfg.Platform.BaseURL)
	assert.Equal(t, 90, cfg.Platform.LoginTimeoutSecs)
	assert.Equal(t, "platform-session", cfg.Platform.SessionKey)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 45, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 5, cfg.Scrape.MaxTagSuggestions)
	assert.Equal(t, 3, cfg.Scrape.LinkWorkers)
	assert.InDelta(t, 0.5, cfg.Scrape.RequestsPerSecond, 0.001)
	assert.Equal(t, 5, cfg.Scrape.MaxAggregatorLinks)
	assert.Equal(t, 50, cfg.Enrich.BatchSize)
	assert.InDelta(t, 0.2, cfg.Enrich.RequestsPerSecond, 0.001)
	assert.Equal(t, 3, cfg.Enrich.MaxAttempts)
	assert.Equal(t, 2000, cfg.Enrich.InitialBackoffMs)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leadscout
  pool:
    max_conns: 20
log:
  level: debug
  format: console
enrich:
  batch_size: 10
browser:
  headless: false
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leadscout", cfg.Store.DatabaseURL)
	assert.Equal(t, int32(20), cfg.Store.Pool.MaxConns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 10, cfg.Enrich.BatchSize)
	assert.False(t, cfg.Browser.Headless)
	// Defaults still apply for unset values
	assert.Equal(t, 45, cfg.Scrape.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chTempDir(t)

	yaml := `
log:
  level: info
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("LEADSCOUT_LOG_LEVEL", "warn")
	t.Setenv("LEADSCOUT_PLATFORM_USERNAME", "scout_account")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "scout_account", cfg.Platform.Username)
}

func TestDurationHelpers(t *testing.T) {
	p := PlatformConfig{LoginTimeoutSecs: 90}
	assert.Equal(t, "1m30s", p.LoginTimeout().String())

	s := ScrapeConfig{TimeoutSecs: 45}
	assert.Equal(t, "45s", s.Timeout().String())
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
