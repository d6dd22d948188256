package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	prom "github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request count, latency and in-flight requests, labelled by
// the matched route pattern so path parameters do not explode cardinality.
func Metrics(m *prom.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			active := m.HTTPActiveRequests.WithLabelValues(r.Method)
			active.Inc()
			defer active.Dec()

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			prom.RecordHTTPRequest(m, r.Method, routePattern(r), rec.statusCode, time.Since(start))
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
