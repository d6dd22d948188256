package vehicle

import (
	"fmt"
	"math"
	"time"
)

// FuelKind is the propulsion class used for energy pricing and regression
// indicators.
type FuelKind string

const (
	FuelGasoline FuelKind = "gasoline"
	FuelDiesel   FuelKind = "diesel"
	FuelHybrid   FuelKind = "hybrid"
	FuelPHEV     FuelKind = "phev"
	FuelElectric FuelKind = "electric"
)

// Price table categories.
const (
	PriceGasoline    = "gasoline"
	PricePremium     = "premium"
	PriceDiesel      = "diesel"
	PriceElectricity = "electricity"
)

// FuelPriceTable holds per-unit energy prices (per litre, or per kWh for
// electricity) as of a given date. Treat it as immutable once published.
type FuelPriceTable struct {
	AsOf   time.Time          `json:"asOf" yaml:"as_of"`
	Source string             `json:"source" yaml:"source"`
	Prices map[string]float64 `json:"prices" yaml:"prices"`
}

// Price returns the price for category.
func (t FuelPriceTable) Price(category string) (float64, bool) {
	p, ok := t.Prices[category]
	if !ok || math.IsNaN(p) || p <= 0 {
		return 0, false
	}
	return p, true
}

// Validate checks that every listed price is positive and that at least the
// gasoline price is present.
func (t FuelPriceTable) Validate() error {
	for k, v := range t.Prices {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("fuel price %q must be positive, got %v", k, v)
		}
	}
	if _, ok := t.Prices[PriceGasoline]; !ok {
		return fmt.Errorf("fuel price table is missing %q", PriceGasoline)
	}
	return nil
}

// ClassifyFuel maps a free-text fuel category to a FuelKind. Plug-in hybrids
// are checked before hybrids, and hybrids before pure electrics, so
// "Híbrido eléctrico" is a hybrid.
func ClassifyFuel(category string) FuelKind {
	switch {
	case ContainsAny(category, "phev", "plug-in", "plug in", "enchufable"):
		return FuelPHEV
	case ContainsAny(category, "hev", "hibrid", "hybrid", "mhev"):
		return FuelHybrid
	case ContainsAny(category, "electr", "bev"):
		return FuelElectric
	case ContainsAny(category, "diesel"):
		return FuelDiesel
	default:
		return FuelGasoline
	}
}

// FuelKindOf classifies rec, treating a record that reports only kWh
// consumption as electric.
func FuelKindOf(rec *Record) FuelKind {
	if rec.FuelCategory == "" && Positive(rec.KWhPer100Km) && !Positive(rec.KmPerLiter) {
		return FuelElectric
	}
	return ClassifyFuel(rec.FuelCategory)
}

func priceCategory(rec *Record, kind FuelKind) string {
	switch kind {
	case FuelElectric:
		return PriceElectricity
	case FuelDiesel:
		return PriceDiesel
	}
	if ContainsAny(rec.FuelCategory, "premium") {
		return PricePremium
	}
	return PriceGasoline
}
