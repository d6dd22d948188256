// Command apiserver serves the comparison engine over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/AutoCompare-Intelligence/internal/application/compare"
	"github.com/turtacn/AutoCompare-Intelligence/internal/config"
	"github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/AutoCompare-Intelligence/internal/interfaces/http"
	"github.com/turtacn/AutoCompare-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/AutoCompare-Intelligence/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.Load(config.WithConfigPath(configPath))
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting autocompare API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()))

	collector, metrics, err := buildMetrics(cfg.Metrics, logger)
	if err != nil {
		return err
	}

	prices, err := cfg.FuelPrices.Table()
	if err != nil {
		return err
	}

	opts := []compare.Option{compare.WithLogger(logger.Named("compare")), compare.WithMetrics(metrics)}
	var checks []handlers.HealthChecker
	cache, closeCache := buildCache(cfg.Cache, metrics, logger)
	if cache != nil {
		defer closeCache()
		opts = append(opts, compare.WithCache(cache, cfg.Cache.TTL))
		checks = append(checks, handlers.NewCheck("redis", cache.Ping))
	}

	svc, err := compare.NewService(cfg.Engine, prices, opts...)
	if err != nil {
		return err
	}

	if configPath != "" {
		if err := watchFuelPrices(configPath, svc, logger); err != nil {
			logger.Warn("config watch disabled", logging.Err(err))
		}
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		CompareHandler:   handlers.NewCompareHandler(svc, logger.Named("http"), cfg.Server.MaxBodySize),
		HealthHandler:    handlers.NewHealthHandler(version, checks...),
		Logger:           logger.Named("http"),
		Logging:          middleware.DefaultLoggingConfig(),
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return srv.Stop(context.Background())
}
