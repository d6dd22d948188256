package main

import (
	"github.com/turtacn/AutoCompare-Intelligence/internal/application/compare"
	"github.com/turtacn/AutoCompare-Intelligence/internal/config"
	"github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/cache/redis"
	"github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// buildMetrics returns nil values when metrics are disabled.
func buildMetrics(cfg config.MetricsConfig, logger logging.Logger) (prom.MetricsCollector, *prom.AppMetrics, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{
		Namespace:            cfg.Namespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return collector, prom.NewAppMetrics(collector), nil
}

// buildCache connects the report cache. An unreachable Redis is logged and
// the server runs uncached.
func buildCache(cfg config.CacheConfig, metrics *prom.AppMetrics, logger logging.Logger) (redis.Cache, func()) {
	if !cfg.Enabled {
		return nil, func() {}
	}
	client, err := redis.NewClient(&redis.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	}, logger)
	if err != nil {
		logger.Warn("report cache disabled", logging.String("addr", cfg.Addr), logging.Err(err))
		return nil, func() {}
	}
	cache := redis.NewRedisCache(client, logger,
		redis.WithPrefix(cfg.KeyPrefix),
		redis.WithDefaultTTL(cfg.TTL),
		redis.WithMetrics(metrics, "report"))
	return cache, func() { _ = client.Close() }
}

// watchFuelPrices publishes the fuel price table of every valid config
// revision to svc.
func watchFuelPrices(path string, svc *compare.Service, logger logging.Logger) error {
	return config.Watch(path,
		func(cfg *config.Config) {
			table, err := cfg.FuelPrices.Table()
			if err == nil {
				err = svc.UpdateFuelPrices(table, "config")
			}
			if err != nil {
				logger.Warn("fuel price reload rejected", logging.Err(err))
			}
		},
		func(err error) {
			logger.Warn("config reload failed", logging.Err(err))
		})
}
