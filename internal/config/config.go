// Package config defines the configuration structures for the comparison
// engine and its HTTP and CLI front ends. No I/O lives in this file, only
// plain data types and validation.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
	"github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// EngineConfig carries every tuned threshold of the comparison engine.
type EngineConfig struct {
	HorizonKm         float64   `mapstructure:"horizon_km"`
	ScoreDeviation    float64   `mapstructure:"score_deviation"`
	FallbackCostPerHP float64   `mapstructure:"fallback_cost_per_hp"`
	PivotEpsilon      float64   `mapstructure:"pivot_epsilon"`
	JitterStep        float64   `mapstructure:"jitter_step"`
	IsoSteps          []float64 `mapstructure:"iso_steps"`
	IsoMaxLevels      int       `mapstructure:"iso_max_levels"`
	MaxSections       int       `mapstructure:"max_sections"`
	MaxRowsPerSection int       `mapstructure:"max_rows_per_section"`
}

// FuelPricesConfig is the configured energy price table. AsOf is a
// YYYY-MM-DD date.
type FuelPricesConfig struct {
	AsOf   string             `mapstructure:"as_of"`
	Source string             `mapstructure:"source"`
	Prices map[string]float64 `mapstructure:"prices"`
}

// Table converts the configuration into a validated price table.
func (f FuelPricesConfig) Table() (vehicle.FuelPriceTable, error) {
	t := vehicle.FuelPriceTable{Source: f.Source, Prices: make(map[string]float64, len(f.Prices))}
	for k, v := range f.Prices {
		t.Prices[k] = v
	}
	if f.AsOf != "" {
		asOf, err := time.Parse("2006-01-02", f.AsOf)
		if err != nil {
			return vehicle.FuelPriceTable{}, fmt.Errorf("fuel_prices.as_of %q: %w", f.AsOf, err)
		}
		t.AsOf = asOf
	}
	if err := t.Validate(); err != nil {
		return vehicle.FuelPriceTable{}, err
	}
	return t, nil
}

// CacheConfig holds the Redis report cache parameters.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	TTL         time.Duration `mapstructure:"ttl"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Log        logging.LogConfig `mapstructure:"log"`
	Engine     EngineConfig      `mapstructure:"engine"`
	FuelPrices FuelPricesConfig  `mapstructure:"fuel_prices"`
	Cache      CacheConfig       `mapstructure:"cache"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.MaxBodySize < 0 {
		return fmt.Errorf("server.max_body_size must be >= 0, got %d", c.Server.MaxBodySize)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if err := c.Engine.validate(); err != nil {
		return err
	}

	if _, err := c.FuelPrices.Table(); err != nil {
		return fmt.Errorf("fuel_prices: %w", err)
	}

	if c.Cache.Enabled {
		if c.Cache.Addr == "" {
			return fmt.Errorf("cache.addr is required when the cache is enabled")
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
		}
	}
	if c.Cache.DB < 0 {
		return fmt.Errorf("cache.db must be >= 0, got %d", c.Cache.DB)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("metrics.path is required when metrics are enabled")
	}
	return nil
}

func (e EngineConfig) validate() error {
	positive := map[string]float64{
		"engine.horizon_km":           e.HorizonKm,
		"engine.score_deviation":      e.ScoreDeviation,
		"engine.fallback_cost_per_hp": e.FallbackCostPerHP,
		"engine.pivot_epsilon":        e.PivotEpsilon,
	}
	for name, v := range positive {
		if math.IsNaN(v) || v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
	}
	if e.JitterStep < 0 {
		return fmt.Errorf("engine.jitter_step must be >= 0, got %v", e.JitterStep)
	}
	if len(e.IsoSteps) == 0 {
		return fmt.Errorf("engine.iso_steps must contain at least one step")
	}
	for _, s := range e.IsoSteps {
		if s <= 0 {
			return fmt.Errorf("engine.iso_steps must be positive, got %v", s)
		}
	}
	if e.IsoMaxLevels < 3 {
		return fmt.Errorf("engine.iso_max_levels must be >= 3, got %d", e.IsoMaxLevels)
	}
	if e.MaxSections < 1 {
		return fmt.Errorf("engine.max_sections must be >= 1, got %d", e.MaxSections)
	}
	if e.MaxRowsPerSection < 1 {
		return fmt.Errorf("engine.max_rows_per_section must be >= 1, got %d", e.MaxRowsPerSection)
	}
	return nil
}
