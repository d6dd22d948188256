package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AutoCompare-Intelligence/internal/application/compare"
	"github.com/turtacn/AutoCompare-Intelligence/internal/config"
	prom "github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AutoCompare-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/AutoCompare-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/AutoCompare-Intelligence/internal/testutil"
)

const compareBody = `{
  "base": {"make": "Toyota", "model": "Corolla", "year": "2024",
           "transactionPrice": 420000, "horsepower": 169, "equipScore": 62},
  "competitors": [
    {"make": "Honda", "model": "Civic", "year": "2024",
     "transactionPrice": 445000, "horsepower": 180, "equipScore": 70}
  ]
}`

type testServer struct {
	*httptest.Server
	log *testutil.MockLogger
}

func newTestServer(t *testing.T, checks ...handlers.HealthChecker) *testServer {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	prices, err := cfg.FuelPrices.Table()
	require.NoError(t, err)

	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{Namespace: "test"}, nil)
	require.NoError(t, err)
	metrics := prom.NewAppMetrics(collector)

	log := testutil.NewMockLogger()
	svc, err := compare.NewService(cfg.Engine, prices, compare.WithLogger(log), compare.WithMetrics(metrics))
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		CompareHandler:   handlers.NewCompareHandler(svc, log, cfg.Server.MaxBodySize),
		HealthHandler:    handlers.NewHealthHandler("test", checks...),
		Logger:           log,
		Logging:          middleware.DefaultLoggingConfig(),
		Metrics:          metrics,
		MetricsCollector: collector,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, log: log}
}

func (s *testServer) post(t *testing.T, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(s.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func (s *testServer) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(s.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestRouter_Compare(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.post(t, "/api/v1/compare", compareBody)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var rep compare.Report
	require.NoError(t, json.Unmarshal(body, &rep))
	assert.Equal(t, "TOYOTA|COROLLA||2024", rep.BaseKey)
	require.Len(t, rep.Decompositions, 1)
	assert.Equal(t, 25000.0, rep.Decompositions[0].TotalDelta)
	assert.Contains(t, rep.Charts.Waterfalls, "HONDA|CIVIC||2024")

	assert.True(t, srv.log.HasMessage("info", "HTTP request completed"))
}

func TestRouter_Explain(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.post(t, "/api/v1/compare/explain", compareBody)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var exp compare.Explanation
	require.NoError(t, json.Unmarshal(body, &exp))
	assert.Equal(t, "TOYOTA|COROLLA||2024", exp.BaseKey)
	assert.Len(t, exp.Waterfalls, 1)
}

func TestRouter_CompareErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{"base":`, http.StatusBadRequest, "COMMON_002"},
		{"missing base", `{"competitors":[{"make":"Honda","model":"Civic"}]}`, http.StatusBadRequest, "VEH_003"},
		{"only the base", `{"base":{"make":"Kia","model":"K4"},"competitors":[{"make":"kia","model":"k4"}]}`, http.StatusUnprocessableEntity, "CMP_002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := srv.post(t, "/api/v1/compare", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var e handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tt.code, e.Code)
		})
	}
	assert.NotEmpty(t, srv.log.MessagesAt("warn"))
}

func TestRouter_MethodAndRouteMisses(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := srv.get(t, "/api/v1/compare")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = srv.get(t, "/api/v2/compare")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Probes(t *testing.T) {
	healthy := newTestServer(t, handlers.NewCheck("redis", func(context.Context) error { return nil }))
	resp, _ := healthy.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = healthy.get(t, "/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	broken := newTestServer(t, handlers.NewCheck("redis", func(context.Context) error { return errors.New("dial tcp: refused") }))
	resp, body := broken.get(t, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "dial tcp: refused")
	assert.Empty(t, broken.log.MessagesAt("error"), "probes are not request-logged")
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t)
	srv.post(t, "/api/v1/compare", compareBody)

	resp, body := srv.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `test_http_requests_total{method="POST"`)
	assert.Contains(t, body, `test_recompute_total{status="success"} 1`)
	assert.Contains(t, body, `test_decompositions_total{method="heuristic"} 1`)
}

func TestServer_ServeAndStop(t *testing.T) {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second, ShutdownTimeout: time.Second}
	h := NewRouter(RouterConfig{HealthHandler: handlers.NewHealthHandler("test")})
	srv := NewServer(cfg, h, testutil.NewMockLogger())
	assert.Equal(t, "127.0.0.1:0", srv.srv.Addr)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_StopBeforeStart(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 0}, http.NotFoundHandler(), nil)
	assert.NoError(t, srv.Stop(context.Background()))
	assert.NotNil(t, srv.Handler())
}
