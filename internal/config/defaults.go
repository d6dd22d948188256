package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodySize     = 4 << 20

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultHorizonKm         = 60000.0
	DefaultScoreDeviation    = 5.0
	DefaultFallbackCostPerHP = 2000.0
	DefaultPivotEpsilon      = 1e-8
	DefaultJitterStep        = 0.6
	DefaultIsoMaxLevels      = 4
	DefaultMaxSections       = 3
	DefaultMaxRowsPerSection = 12

	DefaultFuelAsOf   = "2024-01-01"
	DefaultFuelSource = "default"

	DefaultCacheAddr      = "localhost:6379"
	DefaultCacheTTL       = 15 * time.Minute
	DefaultCachePoolSize  = 10
	DefaultCacheDial      = 5 * time.Second
	DefaultCacheKeyPrefix = "autocmp:report:"

	DefaultMetricsNamespace = "autocompare"
	DefaultMetricsPath      = "/metrics"
)

// DefaultIsoSteps are the candidate iso-cost steps, smallest first.
func DefaultIsoSteps() []float64 {
	return []float64{250, 500, 1000, 2000, 5000}
}

// DefaultFuelPrices is the fallback energy price table.
func DefaultFuelPrices() map[string]float64 {
	return map[string]float64{
		"gasoline":    23.9,
		"premium":     25.9,
		"diesel":      25.4,
		"electricity": 2.9,
	}
}

// ApplyDefaults fills every zero-value field in cfg with its default.
// Fields already set are left unchanged so explicit configuration wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	e := &cfg.Engine
	if e.HorizonKm == 0 {
		e.HorizonKm = DefaultHorizonKm
	}
	if e.ScoreDeviation == 0 {
		e.ScoreDeviation = DefaultScoreDeviation
	}
	if e.FallbackCostPerHP == 0 {
		e.FallbackCostPerHP = DefaultFallbackCostPerHP
	}
	if e.PivotEpsilon == 0 {
		e.PivotEpsilon = DefaultPivotEpsilon
	}
	if e.JitterStep == 0 {
		e.JitterStep = DefaultJitterStep
	}
	if len(e.IsoSteps) == 0 {
		e.IsoSteps = DefaultIsoSteps()
	}
	if e.IsoMaxLevels == 0 {
		e.IsoMaxLevels = DefaultIsoMaxLevels
	}
	if e.MaxSections == 0 {
		e.MaxSections = DefaultMaxSections
	}
	if e.MaxRowsPerSection == 0 {
		e.MaxRowsPerSection = DefaultMaxRowsPerSection
	}

	// ── Fuel prices ───────────────────────────────────────────────────────────
	if cfg.FuelPrices.Prices == nil {
		cfg.FuelPrices.Prices = map[string]float64{}
	}
	for k, v := range DefaultFuelPrices() {
		if _, ok := cfg.FuelPrices.Prices[k]; !ok {
			cfg.FuelPrices.Prices[k] = v
		}
	}
	if cfg.FuelPrices.AsOf == "" {
		cfg.FuelPrices.AsOf = DefaultFuelAsOf
	}
	if cfg.FuelPrices.Source == "" {
		cfg.FuelPrices.Source = DefaultFuelSource
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = DefaultCacheAddr
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.PoolSize == 0 {
		cfg.Cache.PoolSize = DefaultCachePoolSize
	}
	if cfg.Cache.DialTimeout == 0 {
		cfg.Cache.DialTimeout = DefaultCacheDial
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// registerDefaults makes every key known to viper so that AUTOCMP_* variables
// resolve even when no config file mentions the key.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.max_body_size", DefaultMaxBodySize)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("engine.horizon_km", DefaultHorizonKm)
	v.SetDefault("engine.score_deviation", DefaultScoreDeviation)
	v.SetDefault("engine.fallback_cost_per_hp", DefaultFallbackCostPerHP)
	v.SetDefault("engine.pivot_epsilon", DefaultPivotEpsilon)
	v.SetDefault("engine.jitter_step", DefaultJitterStep)
	v.SetDefault("engine.iso_steps", DefaultIsoSteps())
	v.SetDefault("engine.iso_max_levels", DefaultIsoMaxLevels)
	v.SetDefault("engine.max_sections", DefaultMaxSections)
	v.SetDefault("engine.max_rows_per_section", DefaultMaxRowsPerSection)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", DefaultCacheAddr)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.key_prefix", DefaultCacheKeyPrefix)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.path", DefaultMetricsPath)
}
