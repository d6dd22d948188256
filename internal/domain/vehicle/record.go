package vehicle

import (
	"sort"
	"strings"
)

// Pillar names one of the equipment sub-scores (0-100).
type Pillar string

const (
	PillarADAS         Pillar = "adas"
	PillarSafety       Pillar = "safety"
	PillarComfort      Pillar = "comfort"
	PillarInfotainment Pillar = "infotainment"
	PillarTraction     Pillar = "traction"
	PillarUtility      Pillar = "utility"
)

// AllPillars lists the pillars in their canonical display order.
var AllPillars = []Pillar{
	PillarADAS, PillarSafety, PillarComfort, PillarInfotainment, PillarTraction, PillarUtility,
}

// FeatureItem is one entry of a record's free-form feature list.
type FeatureItem struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// FeatureDiff is the pair of feature label lists that distinguish a
// competitor from the base: Plus are labels only the competitor has, Minus
// are labels only the base has.
type FeatureDiff struct {
	Plus  []string `json:"plus"`
	Minus []string `json:"minus"`
}

// Record is one catalog entry for a make/model/version/year. Optional
// numbers are nil when the source did not provide them.
//
// Records are treated as read-only snapshots: Enrich and friends return
// augmented copies and never mutate their input.
type Record struct {
	Make    string `json:"make"`
	Model   string `json:"model"`
	Version string `json:"version"`
	Year    string `json:"year"`

	MSRP             *float64 `json:"msrp,omitempty"`
	TransactionPrice *float64 `json:"transactionPrice,omitempty"`
	Bonus            *float64 `json:"bonus,omitempty"`
	Horsepower       *float64 `json:"horsepower,omitempty"`

	LengthMm *float64 `json:"lengthMm,omitempty"`
	WidthMm  *float64 `json:"widthMm,omitempty"`
	HeightMm *float64 `json:"heightMm,omitempty"`

	FuelCategory string   `json:"fuelCategory,omitempty"`
	KmPerLiter   *float64 `json:"kmPerLiter,omitempty"`
	KWhPer100Km  *float64 `json:"kwhPer100km,omitempty"`

	EnergyCost60k *float64 `json:"energyCost60k,omitempty"`
	ServiceCost   *float64 `json:"serviceCost,omitempty"`
	TCO           *float64 `json:"tco,omitempty"`

	EquipScore *float64           `json:"equipScore,omitempty"`
	Pillars    map[Pillar]float64 `json:"pillars,omitempty"`

	SalesMonthly *float64 `json:"salesMonthly,omitempty"`
	SalesYTD     *float64 `json:"salesYtd,omitempty"`

	Segment       string   `json:"segment,omitempty"`
	BodyStyle     string   `json:"bodyStyle,omitempty"`
	Drivetrain    string   `json:"drivetrain,omitempty"`
	CabType       string   `json:"cabType,omitempty"`
	WarrantyScore *float64 `json:"warrantyScore,omitempty"`

	Specs       map[string]any `json:"specs,omitempty"`
	FeatureList []FeatureItem  `json:"features,omitempty"`
	Description string         `json:"description,omitempty"`

	// Columns holds raw source columns not mapped to a named field,
	// typically per-feature presence columns such as "adas_aeb".
	Columns map[string]any `json:"columns,omitempty"`

	CostPerHP *float64       `json:"costPerHp,omitempty"`
	Flags     FeatureFlagSet `json:"flags,omitempty"`

	// PrecomputedDiff is the feature diff supplied by the fetch layer, if any.
	PrecomputedDiff *FeatureDiff `json:"diffs,omitempty"`
}

// Clone returns a copy of r whose maps and slices are independent of r's.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.MSRP = clonePtr(r.MSRP)
	c.TransactionPrice = clonePtr(r.TransactionPrice)
	c.Bonus = clonePtr(r.Bonus)
	c.Horsepower = clonePtr(r.Horsepower)
	c.LengthMm = clonePtr(r.LengthMm)
	c.WidthMm = clonePtr(r.WidthMm)
	c.HeightMm = clonePtr(r.HeightMm)
	c.KmPerLiter = clonePtr(r.KmPerLiter)
	c.KWhPer100Km = clonePtr(r.KWhPer100Km)
	c.EnergyCost60k = clonePtr(r.EnergyCost60k)
	c.ServiceCost = clonePtr(r.ServiceCost)
	c.TCO = clonePtr(r.TCO)
	c.EquipScore = clonePtr(r.EquipScore)
	c.SalesMonthly = clonePtr(r.SalesMonthly)
	c.SalesYTD = clonePtr(r.SalesYTD)
	c.WarrantyScore = clonePtr(r.WarrantyScore)
	c.CostPerHP = clonePtr(r.CostPerHP)

	if r.Pillars != nil {
		c.Pillars = make(map[Pillar]float64, len(r.Pillars))
		for k, v := range r.Pillars {
			c.Pillars[k] = v
		}
	}
	if r.Specs != nil {
		c.Specs = make(map[string]any, len(r.Specs))
		for k, v := range r.Specs {
			c.Specs[k] = v
		}
	}
	if r.Columns != nil {
		c.Columns = make(map[string]any, len(r.Columns))
		for k, v := range r.Columns {
			c.Columns[k] = v
		}
	}
	if r.FeatureList != nil {
		c.FeatureList = append([]FeatureItem(nil), r.FeatureList...)
	}
	c.Flags = r.Flags.Clone()
	if r.PrecomputedDiff != nil {
		c.PrecomputedDiff = &FeatureDiff{
			Plus:  append([]string(nil), r.PrecomputedDiff.Plus...),
			Minus: append([]string(nil), r.PrecomputedDiff.Minus...),
		}
	}
	return &c
}

// Price returns the transaction price, falling back to MSRP.
func (r *Record) Price() (float64, bool) {
	if Positive(r.TransactionPrice) {
		return *r.TransactionPrice, true
	}
	if Positive(r.MSRP) {
		return *r.MSRP, true
	}
	return 0, false
}

// Label is the human-readable "Make Model Version Year" label.
func (r *Record) Label() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{r.Make, r.Model, r.Version, r.Year} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// PillarValue returns the pillar score if present and > 0.
func (r *Record) PillarValue(p Pillar) (float64, bool) {
	v, ok := r.Pillars[p]
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// Column returns a raw column value.
func (r *Record) Column(name string) (any, bool) {
	v, ok := r.Columns[name]
	return v, ok
}

// FeatureFlagSet is the sparse set of canonical feature keys a vehicle has.
// Only true entries are stored.
type FeatureFlagSet map[string]bool

// Has reports whether key is present.
func (s FeatureFlagSet) Has(key string) bool { return s[key] }

// Keys returns the present keys sorted.
func (s FeatureFlagSet) Keys() []string {
	out := make([]string, 0, len(s))
	for k, v := range s {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Clone copies the set.
func (s FeatureFlagSet) Clone() FeatureFlagSet {
	if s == nil {
		return nil
	}
	out := make(FeatureFlagSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
