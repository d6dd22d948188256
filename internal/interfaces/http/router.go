// Package http exposes the comparison engine over a JSON API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AutoCompare-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/AutoCompare-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and infrastructure the route tree is
// built from. Nil handlers leave their routes unmounted.
type RouterConfig struct {
	CompareHandler *handlers.CompareHandler
	HealthHandler  *handlers.HealthHandler

	Logger           logging.Logger
	Logging          middleware.LoggingConfig
	Metrics          *prom.AppMetrics
	MetricsCollector prom.MetricsCollector
	MetricsPath      string
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	r.Use(middleware.Metrics(cfg.Metrics))

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		r.Handle(cfg.MetricsPath, cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerCompareRoutes(api, cfg.CompareHandler)
	})

	return r
}

// registerCompareRoutes mounts the comparison endpoints under /compare.
func registerCompareRoutes(r chi.Router, h *handlers.CompareHandler) {
	if h == nil {
		return
	}
	r.Route("/compare", func(cr chi.Router) {
		cr.Post("/", h.Compare)
		cr.Post("/explain", h.Explain)
	})
}
