package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppMetrics_AllRegistered(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)
	require.NotNil(t, m)

	RecordHTTPRequest(m, "POST", "/api/v1/compare", 200, 20*time.Millisecond)
	RecordRecompute(m, nil, 3, time.Millisecond)
	RecordSkippedRecord(m, "panic")
	RecordDecomposition(m, "regression")
	RecordFuelPriceSwap(m, "config", time.Unix(1714521600, 0))
	RecordCacheAccess(m, "report", true)
	RecordCacheAccess(m, "report", false)
	RecordCacheError(m, "report", "get")

	n, err := testutil.GatherAndCount(c.Gatherer())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 12)
}

func TestRecordRecompute(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	RecordRecompute(m, nil, 4, 2*time.Millisecond)
	RecordRecompute(m, errors.New("boom"), 0, time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_recompute_total{status="success"} 1`)
	assert.Contains(t, out, `test_unit_recompute_total{status="failure"} 1`)
	assert.Contains(t, out, "test_unit_recompute_duration_seconds_count 2")
	assert.Contains(t, out, "test_unit_competitors_per_run_sum 4")
}

func TestRecordHTTPRequest(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	RecordHTTPRequest(m, "GET", "/healthz", 200, time.Millisecond)
	RecordHTTPRequest(m, "GET", "/healthz", 200, time.Millisecond)

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_http_requests_total{method="GET",path="/healthz",status_code="200"} 2`)
}

func TestRecordDecompositionAndCache(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	RecordDecomposition(m, "heuristic")
	RecordDecomposition(m, "heuristic")
	RecordCacheAccess(m, "report", false)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_decompositions_total{method="heuristic"} 2`)
	assert.Contains(t, out, `test_unit_cache_misses_total{cache="report"} 1`)
}

func TestRecordFuelPriceSwap(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	RecordFuelPriceSwap(m, "file", time.Unix(1700000000, 0))
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_fuel_prices_as_of_seconds 1.7e+09")
}

func TestHelpers_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest(nil, "GET", "/", 200, 0)
		RecordRecompute(nil, nil, 1, 0)
		RecordSkippedRecord(nil, "panic")
		RecordDecomposition(nil, "heuristic")
		RecordFuelPriceSwap(nil, "x", time.Now())
		RecordCacheAccess(nil, "report", true)
		RecordCacheError(nil, "report", "set")
	})
}
