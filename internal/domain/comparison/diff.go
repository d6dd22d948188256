// Package comparison computes base-versus-competitor diffs, price-gap
// decompositions and ranked advantage sections over enriched vehicle records.
// Every operation is a pure function of its inputs; missing data degrades to
// omitted deltas rather than errors.
package comparison

import (
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

// Metric describes one numeric field compared between vehicles.
type Metric struct {
	Key   string
	Label string

	// LowerIsBetter marks money metrics where a cheaper base is an upside.
	LowerIsBetter bool

	value func(*vehicle.Record) *float64
}

// Value returns the metric for rec, or nil when missing.
func (m Metric) Value(rec *vehicle.Record) *float64 {
	if rec == nil {
		return nil
	}
	return m.value(rec)
}

// Metrics are the numeric fields diffed for every competitor.
var Metrics = []Metric{
	{Key: "msrp", Label: "MSRP", LowerIsBetter: true, value: func(r *vehicle.Record) *float64 { return r.MSRP }},
	{Key: "transactionPrice", Label: "Transaction price", LowerIsBetter: true, value: func(r *vehicle.Record) *float64 { return r.TransactionPrice }},
	{Key: "bonus", Label: "Bonus", value: func(r *vehicle.Record) *float64 { return r.Bonus }},
	{Key: "energyCost60k", Label: "Energy cost (60k km)", LowerIsBetter: true, value: func(r *vehicle.Record) *float64 { return r.EnergyCost60k }},
	{Key: "serviceCost", Label: "Service cost", LowerIsBetter: true, value: func(r *vehicle.Record) *float64 { return r.ServiceCost }},
	{Key: "tco", Label: "Total cost of ownership", LowerIsBetter: true, value: func(r *vehicle.Record) *float64 { return r.TCO }},
}

// Delta is a competitor-minus-base difference.
type Delta struct {
	Delta float64 `json:"delta"`
}

// Result is the comparison of one competitor against the base.
type Result struct {
	Base       *vehicle.Record `json:"-"`
	Competitor *vehicle.Record `json:"-"`

	BaseKey       string `json:"baseKey"`
	CompetitorKey string `json:"competitorKey"`

	Deltas       map[string]Delta           `json:"deltas"`
	FeatureDiffs vehicle.FeatureDiff        `json:"featureDiffs"`
	PillarDeltas map[vehicle.Pillar]float64 `json:"pillarDeltas"`
}

// Differ compares records against a feature catalog.
type Differ struct {
	catalog *vehicle.Catalog
}

// NewDiffer returns a Differ over catalog, or the default catalog when nil.
func NewDiffer(catalog *vehicle.Catalog) *Differ {
	if catalog == nil {
		catalog = vehicle.DefaultCatalog()
	}
	return &Differ{catalog: catalog}
}

// Catalog returns the catalog the Differ uses.
func (d *Differ) Catalog() *vehicle.Catalog { return d.catalog }

// FallbackDiff derives the feature diff from the catalog alone: Plus holds
// labels the competitor has and the base lacks, Minus the reverse.
func (d *Differ) FallbackDiff(base, comp *vehicle.Record) vehicle.FeatureDiff {
	out := vehicle.FeatureDiff{Plus: []string{}, Minus: []string{}}
	for _, def := range d.catalog.Defs() {
		b := vehicle.HasFeature(base, def)
		c := vehicle.HasFeature(comp, def)
		switch {
		case c && !b:
			out.Plus = append(out.Plus, def.Label)
		case b && !c:
			out.Minus = append(out.Minus, def.Label)
		}
	}
	return out
}

// FeatureDiff merges the competitor's precomputed diff, if any, with the
// fallback diff. Labels keep first-seen order and appear once.
func (d *Differ) FeatureDiff(base, comp *vehicle.Record) vehicle.FeatureDiff {
	fallback := d.FallbackDiff(base, comp)
	if comp == nil || comp.PrecomputedDiff == nil {
		return fallback
	}
	return vehicle.FeatureDiff{
		Plus:  mergeLabels(comp.PrecomputedDiff.Plus, fallback.Plus),
		Minus: mergeLabels(comp.PrecomputedDiff.Minus, fallback.Minus),
	}
}

func mergeLabels(lists ...[]string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, list := range lists {
		for _, l := range list {
			if l == "" {
				continue
			}
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}

// Compare builds the full Result for comp against base.
func (d *Differ) Compare(base, comp *vehicle.Record) *Result {
	res := &Result{
		Base:          base,
		Competitor:    comp,
		BaseKey:       vehicle.KeyForRow(base),
		CompetitorKey: vehicle.KeyForRow(comp),
		Deltas:        map[string]Delta{},
		FeatureDiffs:  d.FeatureDiff(base, comp),
		PillarDeltas:  map[vehicle.Pillar]float64{},
	}
	for _, m := range Metrics {
		b, c := m.Value(base), m.Value(comp)
		if !finitePtr(b) || !finitePtr(c) {
			continue
		}
		res.Deltas[m.Key] = Delta{Delta: *c - *b}
	}
	if base != nil && comp != nil {
		for _, p := range vehicle.AllPillars {
			b, okB := base.PillarValue(p)
			c, okC := comp.PillarValue(p)
			if okB && okC {
				res.PillarDeltas[p] = c - b
			}
		}
	}
	return res
}

// CompareAll compares every competitor against base, preserving order.
func (d *Differ) CompareAll(base *vehicle.Record, comps []*vehicle.Record) []*Result {
	out := make([]*Result, 0, len(comps))
	for _, c := range comps {
		out = append(out, d.Compare(base, c))
	}
	return out
}

func finitePtr(p *float64) bool {
	if p == nil {
		return false
	}
	_, ok := vehicle.ParseNumberLike(*p)
	return ok
}
