package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

const validConfigYAML = `
server:
  host: "127.0.0.1"
  port: 8088
  read_timeout: 5s
log:
  level: debug
  format: console
engine:
  horizon_km: 50000
  iso_steps: [100, 250, 500]
  max_rows_per_section: 8
fuel_prices:
  as_of: "2024-05-01"
  source: "station survey"
  prices:
    gasoline: 24.3
    diesel: 25.1
    electricity: 3.0
cache:
  enabled: true
  addr: "redis:6379"
  ttl: 2m
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(WithConfigPath(path))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 50000.0, cfg.Engine.HorizonKm)
	assert.Equal(t, DefaultScoreDeviation, cfg.Engine.ScoreDeviation)
	assert.Equal(t, []float64{100, 250, 500}, cfg.Engine.IsoSteps)
	assert.Equal(t, 8, cfg.Engine.MaxRowsPerSection)
	assert.Equal(t, 24.3, cfg.FuelPrices.Prices["gasoline"])
	assert.Equal(t, DefaultFuelPrices()["premium"], cfg.FuelPrices.Prices["premium"])
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
	assert.Equal(t, errors.ErrCodeConfigLoad, errors.GetCode(err))
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "invalid_yaml: [")
	_, err := Load(WithConfigPath(path))
	assert.ErrorIs(t, err, ErrConfigParseError)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigLoad))
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	path := createTempConfigFile(t, "server:\n  port: 70000\n")
	_, err := Load(WithConfigPath(path))
	assert.ErrorIs(t, err, ErrConfigValidation)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("AUTOCMP_SERVER_PORT", "9999")
	t.Setenv("AUTOCMP_CACHE_ADDR", "cache-host:6380")
	t.Setenv("AUTOCMP_ENGINE_MAX_SECTIONS", "5")

	cfg, err := Load(WithConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "cache-host:6380", cfg.Cache.Addr)
	assert.Equal(t, 5, cfg.Engine.MaxSections)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AUTOCMP_LOG_LEVEL", "warn")
	t.Setenv("AUTOCMP_ENGINE_FALLBACK_COST_PER_HP", "1800")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 1800.0, cfg.Engine.FallbackCostPerHP)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoad_CustomEnvPrefix(t *testing.T) {
	t.Setenv("CMPTEST_SERVER_PORT", "7070")

	cfg, err := Load(WithEnvPrefix("CMPTEST"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	})
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	var port atomic.Int64
	require.NoError(t, Watch(path, func(c *Config) { port.Store(int64(c.Server.Port)) }, nil))

	updated := []byte("server:\n  port: 8099\n")
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	assert.Eventually(t, func() bool { return port.Load() == 8099 }, 5*time.Second, 50*time.Millisecond)
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil)
	assert.ErrorIs(t, err, ErrConfigParseError)
}
