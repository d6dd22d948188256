package compare

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/AutoCompare-Intelligence/internal/config"
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/chart"
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/comparison"
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
	"github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

// ReportCache stores reports by input fingerprint.
type ReportCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// Service runs comparisons. It is safe for concurrent use; the fuel price
// table is the only shared state and is swapped atomically.
type Service struct {
	engine     config.EngineConfig
	catalog    *vehicle.Catalog
	differ     *comparison.Differ
	decomposer *comparison.Decomposer
	prices     atomic.Pointer[vehicle.FuelPriceTable]

	cache    ReportCache
	cacheTTL time.Duration
	metrics  *prom.AppMetrics
	logger   logging.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables report caching.
func WithCache(c ReportCache, ttl time.Duration) Option {
	return func(s *Service) { s.cache, s.cacheTTL = c, ttl }
}

func WithMetrics(m *prom.AppMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithCatalog(c *vehicle.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the run ID source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService builds a Service for the given engine tuning and initial fuel
// price table.
func NewService(engine config.EngineConfig, prices vehicle.FuelPriceTable, opts ...Option) (*Service, error) {
	s := &Service{
		engine: engine,
		logger: logging.NewNopLogger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = vehicle.DefaultCatalog()
	}
	s.differ = comparison.NewDiffer(s.catalog)
	s.decomposer = comparison.NewDecomposer(comparison.DecomposeParams{
		FallbackCostPerHP: engine.FallbackCostPerHP,
		PivotEpsilon:      engine.PivotEpsilon,
	})
	if err := s.UpdateFuelPrices(prices, "initial"); err != nil {
		return nil, err
	}
	return s, nil
}

// FuelPrices returns the active fuel price table.
func (s *Service) FuelPrices() vehicle.FuelPriceTable {
	return *s.prices.Load()
}

// UpdateFuelPrices validates t and publishes a private copy of it. Runs
// already in flight keep the table they started with.
func (s *Service) UpdateFuelPrices(t vehicle.FuelPriceTable, source string) error {
	if err := t.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeFuelPriceTableInvalid, "invalid fuel price table")
	}
	published := vehicle.FuelPriceTable{AsOf: t.AsOf, Source: t.Source, Prices: make(map[string]float64, len(t.Prices))}
	for k, v := range t.Prices {
		published.Prices[k] = v
	}
	s.prices.Store(&published)
	prom.RecordFuelPriceSwap(s.metrics, source, t.AsOf)
	s.logger.Info("fuel prices updated",
		logging.String("source", source),
		logging.String("as_of", t.AsOf.Format("2006-01-02")),
		logging.Int("categories", len(published.Prices)))
	return nil
}

// Recompute runs a full comparison. With a cache configured, identical
// inputs are served from the cache and concurrent identical runs are
// coalesced.
func (s *Service) Recompute(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "recompute cancelled")
	}
	prices := s.FuelPrices()

	if s.cache == nil || req.NoCache {
		return s.recompute(ctx, req, prices)
	}

	key, err := Fingerprint(req, prices, s.engine)
	if err != nil {
		s.logger.Warn("fingerprint failed, bypassing cache", logging.Err(err))
		return s.recompute(ctx, req, prices)
	}

	loaded := false
	var rep Report
	err = s.cache.GetOrSet(ctx, key, &rep, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return s.recompute(ctx, req, prices)
	})
	if err != nil {
		if errors.GetCode(err) == errors.CodeUnknown {
			return nil, errors.Wrap(err, errors.ErrCodeComparisonFailed, "recompute through cache failed")
		}
		return nil, err
	}
	prom.RecordCacheAccess(s.metrics, "report", !loaded)
	rep.relink()
	return &rep, nil
}

// Explain runs enrichment and the price decomposition only.
func (s *Service) Explain(ctx context.Context, req Request) (*Explanation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "explain cancelled")
	}
	run, err := s.prepare(req, s.FuelPrices())
	if err != nil {
		return nil, err
	}
	decs, model := s.decompose(run)
	return &Explanation{
		ID:             run.id,
		BaseKey:        run.baseKey,
		Model:          model,
		Decompositions: decs,
		Waterfalls:     waterfalls(decs),
		Skipped:        run.skipped,
	}, nil
}

// run is the enriched input of one computation.
type run struct {
	id      string
	log     logging.Logger
	base    *vehicle.Record
	baseKey string
	comps   []*vehicle.Record
	skipped []string
}

func (s *Service) recompute(ctx context.Context, req Request, prices vehicle.FuelPriceTable) (*Report, error) {
	start := time.Now()
	rep, err := s.build(req, prices)
	n := 0
	if rep != nil {
		n = len(rep.Competitors)
	}
	prom.RecordRecompute(s.metrics, err, n, time.Since(start))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "recompute cancelled")
	}
	return rep, nil
}

func (s *Service) build(req Request, prices vehicle.FuelPriceTable) (*Report, error) {
	run, err := s.prepare(req, prices)
	if err != nil {
		return nil, err
	}

	results := s.differ.CompareAll(run.base, run.comps)
	decs, model := s.decompose(run)

	maxSections, maxRows := s.engine.MaxSections, s.engine.MaxRowsPerSection
	if req.MaxSections > 0 {
		maxSections = req.MaxSections
	}
	if req.MaxRows > 0 {
		maxRows = req.MaxRows
	}

	rep := &Report{
		ID:             run.id,
		GeneratedAt:    s.now().UTC(),
		BaseKey:        run.baseKey,
		Base:           run.base,
		Competitors:    run.comps,
		Skipped:        run.skipped,
		Comparisons:    results,
		Model:          model,
		Decompositions: decs,
		Upsides:        comparison.TruncateSections(comparison.SectionsFromResults(results, comparison.ModeUpsides), maxSections, maxRows),
		Gaps:           comparison.TruncateSections(comparison.SectionsFromResults(results, comparison.ModeGaps), maxSections, maxRows),
		Charts:         s.charts(run, decs),
		FuelPrices:     prices,
	}
	run.log.Debug("recompute finished",
		logging.Int("competitors", len(run.comps)),
		logging.Int("skipped", len(run.skipped)),
		logging.String("method", model.Method))
	return rep, nil
}

// prepare enriches the base and the deduplicated, non-dismissed competitors.
// A competitor whose enrichment panics is skipped and logged; a failing base
// aborts the run.
func (s *Service) prepare(req Request, prices vehicle.FuelPriceTable) (*run, error) {
	r := &run{id: s.newID()}
	r.log = s.logger.With(logging.RunID(r.id))
	r.log.Debug("recompute started", logging.Int("competitors", len(req.Competitors)))

	deriver := vehicle.NewDeriver(prices, vehicle.DeriveParams{
		HorizonKm:      s.engine.HorizonKm,
		ScoreDeviation: s.engine.ScoreDeviation,
	}, s.catalog)

	base, err := enrich(deriver, req.Base)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeVehicleRecordInvalid, "base vehicle could not be enriched")
	}
	r.base = base
	r.baseKey = vehicle.KeyForRow(base)

	exclude := append([]string{r.baseKey}, req.DismissedKeys()...)
	for _, c := range vehicle.DedupByKey(req.Competitors, exclude...) {
		e, err := enrich(deriver, c)
		if err != nil {
			key := vehicle.KeyForRow(c)
			r.log.Warn("skipping competitor", logging.VehicleKey(key), logging.Err(err))
			prom.RecordSkippedRecord(s.metrics, "enrich_failed")
			r.skipped = append(r.skipped, key)
			continue
		}
		r.comps = append(r.comps, e)
	}
	if len(r.comps) == 0 {
		return nil, errors.New(errors.ErrCodeNoCompetitors, "no competitors left to compare").
			WithDetail(fmt.Sprintf("%d supplied, %d skipped", len(req.Competitors), len(r.skipped)))
	}
	return r, nil
}

var enrichRecord = (*vehicle.Deriver).Enrich

func enrich(d *vehicle.Deriver, rec *vehicle.Record) (out *vehicle.Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("enrich %s: %v", vehicle.KeyForRow(rec), p)
		}
	}()
	return enrichRecord(d, rec), nil
}

func (s *Service) decompose(r *run) ([]comparison.Decomposition, *comparison.PriceModel) {
	decs, model := s.decomposer.Decompose(r.base, r.comps)
	if model.Method == comparison.MethodHeuristic {
		r.log.Debug("price model fell back to heuristic",
			logging.Int("rows", model.Rows),
			logging.String("reason", model.Reason))
	}
	for _, d := range decs {
		prom.RecordDecomposition(s.metrics, d.Method)
	}
	return decs, model
}

func (s *Service) chartOptions() chart.Options {
	opts := chart.DefaultOptions()
	opts.Jitter.Step = s.engine.JitterStep
	if len(s.engine.IsoSteps) > 0 {
		opts.IsoSteps = s.engine.IsoSteps
	}
	if s.engine.IsoMaxLevels > 0 {
		opts.IsoMaxLevels = s.engine.IsoMaxLevels
	}
	return opts
}

func (s *Service) charts(r *run, decs []comparison.Decomposition) Charts {
	all := make([]*vehicle.Record, 0, len(r.comps)+1)
	all = append(all, r.base)
	all = append(all, r.comps...)
	styles := chart.NewStyles(all)
	opts := s.chartOptions()

	return Charts{
		PriceVsScore:      chart.PriceVsScore(all, styles, opts),
		PriceVsHorsepower: chart.PriceVsHorsepower(all, styles, opts),
		Waterfalls:        waterfalls(decs),
		Radar:             chart.BuildRadar(r.base, r.comps, styles),
	}
}

func waterfalls(decs []comparison.Decomposition) map[string][]chart.WaterfallBar {
	out := make(map[string][]chart.WaterfallBar, len(decs))
	for _, d := range decs {
		out[d.CompetitorKey] = chart.Waterfall(d)
	}
	return out
}
