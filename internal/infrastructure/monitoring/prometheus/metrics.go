package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the comparison service metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Engine
	RecomputeTotal       CounterVec
	RecomputeDuration    HistogramVec
	CompetitorsPerRun    HistogramVec
	SkippedRecordsTotal  CounterVec
	DecompositionsTotal  CounterVec
	FuelPricesReloaded   CounterVec
	FuelPriceAsOfSeconds GaugeVec

	// Report cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	CacheErrorsTotal CounterVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultRecomputeBuckets       = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5}
	DefaultCompetitorCountBuckets = []float64{1, 2, 3, 5, 8, 13, 21, 34}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.RecomputeTotal = collector.RegisterCounter("recompute_total", "Comparison recomputations", "status")
	m.RecomputeDuration = collector.RegisterHistogram("recompute_duration_seconds", "Comparison recompute duration", DefaultRecomputeBuckets)
	m.CompetitorsPerRun = collector.RegisterHistogram("competitors_per_run", "Competitors compared per run", DefaultCompetitorCountBuckets)
	m.SkippedRecordsTotal = collector.RegisterCounter("skipped_records_total", "Records skipped during enrichment", "reason")
	m.DecompositionsTotal = collector.RegisterCounter("decompositions_total", "Price gap decompositions", "method")
	m.FuelPricesReloaded = collector.RegisterCounter("fuel_prices_reloaded_total", "Fuel price table swaps", "source")
	m.FuelPriceAsOfSeconds = collector.RegisterGauge("fuel_prices_as_of_seconds", "Unix time of the active fuel price table")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Report cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Report cache misses", "cache")
	m.CacheErrorsTotal = collector.RegisterCounter("cache_errors_total", "Report cache errors", "cache", "operation")

	return m
}

// Helpers. All accept a nil *AppMetrics.

func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordRecompute(m *AppMetrics, err error, competitors int, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RecomputeTotal.WithLabelValues(status).Inc()
	m.RecomputeDuration.WithLabelValues().Observe(duration.Seconds())
	if err == nil {
		m.CompetitorsPerRun.WithLabelValues().Observe(float64(competitors))
	}
}

func RecordSkippedRecord(m *AppMetrics, reason string) {
	if m == nil {
		return
	}
	m.SkippedRecordsTotal.WithLabelValues(reason).Inc()
}

func RecordDecomposition(m *AppMetrics, method string) {
	if m == nil {
		return
	}
	m.DecompositionsTotal.WithLabelValues(method).Inc()
}

func RecordFuelPriceSwap(m *AppMetrics, source string, asOf time.Time) {
	if m == nil {
		return
	}
	m.FuelPricesReloaded.WithLabelValues(source).Inc()
	if !asOf.IsZero() {
		m.FuelPriceAsOfSeconds.WithLabelValues().Set(float64(asOf.Unix()))
	}
}

func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordCacheError(m *AppMetrics, cache, operation string) {
	if m == nil {
		return
	}
	m.CacheErrorsTotal.WithLabelValues(cache, operation).Inc()
}
