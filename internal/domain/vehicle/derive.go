package vehicle

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Default derivation parameters.
const (
	DefaultHorizonKm      = 60000.0
	DefaultScoreDeviation = 5.0
)

// DeriveParams tunes the derived-metric calculations.
type DeriveParams struct {
	// HorizonKm is the distance over which energy cost is projected.
	HorizonKm float64

	// ScoreDeviation is the distance between the stated equipment score and
	// the pillar mean at which the stated score is replaced.
	ScoreDeviation float64
}

// DefaultDeriveParams returns the standard 60,000 km horizon and 5-point
// score tolerance.
func DefaultDeriveParams() DeriveParams {
	return DeriveParams{HorizonKm: DefaultHorizonKm, ScoreDeviation: DefaultScoreDeviation}
}

// Deriver fills in imputed metrics using an injected fuel price table.
// It holds no mutable state and is safe for concurrent use.
type Deriver struct {
	prices  FuelPriceTable
	params  DeriveParams
	catalog *Catalog
}

// NewDeriver builds a Deriver. Zero-valued params fall back to defaults and a
// nil catalog to DefaultCatalog.
func NewDeriver(prices FuelPriceTable, params DeriveParams, catalog *Catalog) *Deriver {
	if params.HorizonKm <= 0 {
		params.HorizonKm = DefaultHorizonKm
	}
	if params.ScoreDeviation <= 0 {
		params.ScoreDeviation = DefaultScoreDeviation
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Deriver{prices: prices, params: params, catalog: catalog}
}

// Prices returns the fuel price table in use.
func (d *Deriver) Prices() FuelPriceTable { return d.prices }

// Catalog returns the feature catalog in use.
func (d *Deriver) Catalog() *Catalog { return d.catalog }

// EnergyCost returns the projected energy spend over the horizon. An existing
// positive value is kept. Electric vehicles use kWh/100km and the electricity
// price; everything else uses km per litre and the matching fuel price.
// Plug-in hybrids without a km/l figure are priced as electric.
func (d *Deriver) EnergyCost(rec *Record) (float64, bool) {
	if Positive(rec.EnergyCost60k) {
		return *rec.EnergyCost60k, true
	}
	kind := FuelKindOf(rec)
	if kind == FuelPHEV && !Positive(rec.KmPerLiter) {
		kind = FuelElectric
	}

	if kind == FuelElectric {
		price, ok := d.prices.Price(PriceElectricity)
		if !ok || !Positive(rec.KWhPer100Km) {
			return 0, false
		}
		return *rec.KWhPer100Km * (d.params.HorizonKm / 100) * price, true
	}

	price, ok := d.prices.Price(priceCategory(rec, kind))
	if !ok {
		price, ok = d.prices.Price(PriceGasoline)
	}
	if !ok || !Positive(rec.KmPerLiter) {
		return 0, false
	}
	return d.params.HorizonKm / *rec.KmPerLiter * price, true
}

// CostPerHP is price (transaction, else MSRP) divided by horsepower.
// It is missing when either input is missing or horsepower is not positive.
func CostPerHP(rec *Record) (float64, bool) {
	if !Positive(rec.Horsepower) {
		return 0, false
	}
	price, ok := rec.Price()
	if !ok {
		return 0, false
	}
	return price / *rec.Horsepower, true
}

// PillarMean is the mean of the pillar scores greater than zero.
func PillarMean(rec *Record) (float64, bool) {
	sum, n := 0.0, 0
	for _, p := range AllPillars {
		if v, ok := rec.PillarValue(p); ok && !math.IsInf(v, 0) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// ReconcileEquipScore returns the equipment score to publish. The stated
// score is replaced by the pillar mean, rounded to one decimal, when it is
// missing, outside (0, 100] or at least deviation away from the mean. With no
// usable pillars the stated score is returned unchanged.
func ReconcileEquipScore(rec *Record, deviation float64) (float64, bool) {
	mean, ok := PillarMean(rec)
	stated := rec.EquipScore
	if !ok {
		if stated == nil || math.IsNaN(*stated) || math.IsInf(*stated, 0) {
			return 0, false
		}
		return *stated, true
	}
	if stated == nil || math.IsNaN(*stated) || math.IsInf(*stated, 0) ||
		*stated <= 0 || *stated > 100 || math.Abs(*stated-mean) >= deviation {
		return decimal.NewFromFloat(mean).Round(1).InexactFloat64(), true
	}
	return *stated, true
}

var lengthColumnKeys = []string{"length_mm", "longitud_mm", "largo_mm", "length", "longitud", "largo"}

var lengthSpecPaths = [][]string{
	{"length_mm"}, {"lengthMm"}, {"longitud_mm"}, {"largo_mm"}, {"length"}, {"longitud"}, {"largo"},
	{"dimensions", "length_mm"}, {"dimensions", "length"},
	{"dimensiones", "largo"}, {"dimensiones", "longitud"},
	{"exterior", "length"}, {"exterior", "largo"},
}

var lengthKeywords = []string{"length", "largo", "longitud"}

// NormalizedLength resolves the body length in millimetres, probing the
// named field, raw columns, the specs sub-object and finally the feature
// list. Values under 100 are taken to be metres.
func NormalizedLength(rec *Record) (float64, bool) {
	if Positive(rec.LengthMm) {
		return toMillimetres(*rec.LengthMm), true
	}
	cols := squashedColumns(rec)
	for _, k := range lengthColumnKeys {
		if n, ok := ParseNumberLike(cols[squash(k)]); ok && n > 0 {
			return toMillimetres(n), true
		}
	}
	for _, path := range lengthSpecPaths {
		if n, ok := ParseNumberLike(specAt(rec.Specs, path)); ok && n > 0 {
			return toMillimetres(n), true
		}
	}
	for _, item := range rec.FeatureList {
		if !ContainsAny(item.Name, lengthKeywords...) {
			continue
		}
		src := item.Value
		if src == "" {
			src = item.Name
		}
		if n, ok := ParseNumberLike(src); ok && n > 0 {
			return toMillimetres(n), true
		}
	}
	return 0, false
}

func specAt(specs map[string]any, path []string) any {
	var cur any = specs
	for _, p := range path {
		m, err := cast.ToStringMapE(cur)
		if err != nil || m == nil {
			return nil
		}
		cur = m[p]
	}
	return cur
}

func toMillimetres(v float64) float64 {
	if v < 100 {
		return v * 1000
	}
	return v
}

// Enrich returns a copy of rec with feature flags and every derived metric
// filled in. Applying Enrich to its own output yields an equal record.
func (d *Deriver) Enrich(rec *Record) *Record {
	out := rec.Clone()
	out.Flags = AugmentFlags(out, d.catalog)
	if v, ok := d.EnergyCost(out); ok {
		out.EnergyCost60k = Float(v)
	}
	if v, ok := CostPerHP(out); ok {
		out.CostPerHP = Float(v)
	} else {
		out.CostPerHP = nil
	}
	if v, ok := ReconcileEquipScore(out, d.params.ScoreDeviation); ok {
		out.EquipScore = Float(v)
	}
	if v, ok := NormalizedLength(out); ok {
		out.LengthMm = Float(v)
	}
	return out
}
