package comparison

import (
	"github.com/shopspring/decimal"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

// Factor names, in waterfall order.
const (
	FactorHP          = "HP"
	FactorEquipment   = "Equipment"
	Factor4x4         = "4x4"
	FactorFuel        = "Fuel/Propulsion"
	FactorCab         = "Cab type"
	FactorWarranty    = "Warranty"
	FactorUnexplained = "Unexplained"
)

// Decomposition methods.
const (
	MethodRegression = "regression"
	MethodHeuristic  = "heuristic"
)

// DefaultFallbackCostPerHP is the reference cost per horsepower used when
// neither the base nor the comparison set yields one.
const DefaultFallbackCostPerHP = 2000.0

// ModelColumns names the regression design columns in order.
var ModelColumns = []string{
	"intercept", "hp", "equipScore", "is4x4",
	"isElectric", "isPHEV", "isHybrid", "isDiesel",
	"isDoubleCab", "isChassisCab", "isSingleCab", "warrantyScore",
}

const (
	colHP = iota + 1
	colEquip
	col4x4
	colElectric
	colPHEV
	colHybrid
	colDiesel
	colDoubleCab
	colChassisCab
	colSingleCab
	colWarranty
)

// DecomposeParams tunes the decomposition.
type DecomposeParams struct {
	FallbackCostPerHP float64
	PivotEpsilon      float64
}

// DefaultDecomposeParams returns the standard parameters.
func DefaultDecomposeParams() DecomposeParams {
	return DecomposeParams{FallbackCostPerHP: DefaultFallbackCostPerHP, PivotEpsilon: DefaultPivotEpsilon}
}

// Contribution is one factor's share of the price gap.
type Contribution struct {
	Factor string  `json:"factor"`
	Amount float64 `json:"amount"`
}

// PriceModel is the hedonic regression fitted over one comparison set.
// Coefficients is nil when the fit fell back to the heuristic path.
type PriceModel struct {
	Columns      []string  `json:"columns"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Rows         int       `json:"rows"`
	Method       string    `json:"method"`
	Reason       string    `json:"reason,omitempty"`
}

// Coefficient returns the fitted coefficient for a named column.
func (m *PriceModel) Coefficient(column string) (float64, bool) {
	if m == nil || m.Coefficients == nil {
		return 0, false
	}
	for i, c := range m.Columns {
		if c == column {
			return m.Coefficients[i], true
		}
	}
	return 0, false
}

// Decomposition explains the price gap between one competitor and the base.
// Sum(Contributions) + Residual equals TotalDelta.
type Decomposition struct {
	CompetitorKey      string         `json:"competitorKey"`
	TotalDelta         float64        `json:"totalDelta"`
	Contributions      []Contribution `json:"contributions"`
	Residual           float64        `json:"residual"`
	Method             string         `json:"method"`
	ReferenceCostPerHP float64        `json:"referenceCostPerHp"`
	EquipSlope         float64        `json:"equipSlope"`
}

// Waterfall returns the contributions followed by the Unexplained residual.
func (d Decomposition) Waterfall() []Contribution {
	out := make([]Contribution, 0, len(d.Contributions)+1)
	out = append(out, d.Contributions...)
	return append(out, Contribution{Factor: FactorUnexplained, Amount: d.Residual})
}

// Explained is the sum of the contributions.
func (d Decomposition) Explained() float64 {
	s := 0.0
	for _, c := range d.Contributions {
		s += c.Amount
	}
	return s
}

// Decomposer attributes price gaps to vehicle attributes.
type Decomposer struct {
	params DecomposeParams
}

// NewDecomposer builds a Decomposer, defaulting zero-valued parameters.
func NewDecomposer(params DecomposeParams) *Decomposer {
	if params.FallbackCostPerHP <= 0 {
		params.FallbackCostPerHP = DefaultFallbackCostPerHP
	}
	if params.PivotEpsilon <= 0 {
		params.PivotEpsilon = DefaultPivotEpsilon
	}
	return &Decomposer{params: params}
}

// DesignRow encodes rec as a regression row in ModelColumns order.
func DesignRow(rec *vehicle.Record) []float64 {
	row := make([]float64, len(ModelColumns))
	row[0] = 1
	row[colHP] = vehicle.Value(rec.Horsepower)
	row[colEquip] = vehicle.Value(rec.EquipScore)
	row[col4x4] = indicator(vehicle.Is4x4(rec))
	switch vehicle.FuelKindOf(rec) {
	case vehicle.FuelElectric:
		row[colElectric] = 1
	case vehicle.FuelPHEV:
		row[colPHEV] = 1
	case vehicle.FuelHybrid:
		row[colHybrid] = 1
	case vehicle.FuelDiesel:
		row[colDiesel] = 1
	}
	switch vehicle.CabKindOf(rec) {
	case vehicle.CabDouble:
		row[colDoubleCab] = 1
	case vehicle.CabChassis:
		row[colChassisCab] = 1
	case vehicle.CabSingle:
		row[colSingleCab] = 1
	}
	row[colWarranty] = vehicle.Value(rec.WarrantyScore)
	return row
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Fit estimates the hedonic price model over vehicles with a transaction
// price. Too few rows or a singular system produce a heuristic model.
func (d *Decomposer) Fit(vehicles []*vehicle.Record) *PriceModel {
	model := &PriceModel{Columns: ModelColumns, Method: MethodHeuristic}
	var x [][]float64
	var y []float64
	for _, v := range vehicles {
		if v == nil || !vehicle.Positive(v.TransactionPrice) {
			continue
		}
		x = append(x, DesignRow(v))
		y = append(y, *v.TransactionPrice)
	}
	model.Rows = len(x)
	if len(x) < len(ModelColumns) {
		model.Reason = ErrUnderdetermined.Error()
		return model
	}
	beta, err := FitOLS(x, y, d.params.PivotEpsilon)
	if err != nil {
		model.Reason = err.Error()
		return model
	}
	model.Coefficients = beta
	model.Method = MethodRegression
	return model
}

// ReferenceCostPerHP is the base's transaction price per horsepower, else the
// mean cost per horsepower across set, else the configured fallback.
func (d *Decomposer) ReferenceCostPerHP(base *vehicle.Record, set []*vehicle.Record) float64 {
	if base != nil && vehicle.Positive(base.TransactionPrice) && vehicle.Positive(base.Horsepower) {
		return *base.TransactionPrice / *base.Horsepower
	}
	sum, n := 0.0, 0
	for _, v := range set {
		if v == nil {
			continue
		}
		if c, ok := vehicle.CostPerHP(v); ok {
			sum += c
			n++
		}
	}
	if n > 0 {
		return sum / float64(n)
	}
	return d.params.FallbackCostPerHP
}

// EquipSlope is the bivariate price-on-equipment-score slope across set, or
// zero when fewer than two usable points exist.
func EquipSlope(set []*vehicle.Record) float64 {
	var xs, ys []float64
	for _, v := range set {
		if v == nil || !vehicle.Positive(v.EquipScore) {
			continue
		}
		price, ok := v.Price()
		if !ok {
			continue
		}
		xs = append(xs, *v.EquipScore)
		ys = append(ys, price)
	}
	line, ok := FitLine(xs, ys)
	if !ok {
		return 0
	}
	return line.Slope
}

// Decompose explains each competitor's price gap to base. The model, the
// reference cost per horsepower and the equipment slope are computed once
// over the whole comparison set. Competitors without a comparable price are
// skipped.
func (d *Decomposer) Decompose(base *vehicle.Record, comps []*vehicle.Record) ([]Decomposition, *PriceModel) {
	set := make([]*vehicle.Record, 0, len(comps)+1)
	set = append(set, base)
	set = append(set, comps...)

	model := d.Fit(set)
	ref := d.ReferenceCostPerHP(base, set)
	slope := EquipSlope(set)

	out := make([]Decomposition, 0, len(comps))
	for _, c := range comps {
		if dec, ok := d.decomposeOne(base, c, model, ref, slope); ok {
			out = append(out, dec)
		}
	}
	return out, model
}

func (d *Decomposer) decomposeOne(base, comp *vehicle.Record, model *PriceModel, ref, slope float64) (Decomposition, bool) {
	if base == nil || comp == nil {
		return Decomposition{}, false
	}
	bp, okB := base.Price()
	cp, okC := comp.Price()
	if !okB || !okC {
		return Decomposition{}, false
	}

	dec := Decomposition{
		CompetitorKey:      vehicle.KeyForRow(comp),
		TotalDelta:         cp - bp,
		Method:             model.Method,
		ReferenceCostPerHP: ref,
		EquipSlope:         slope,
	}

	dHP := 0.0
	if vehicle.Positive(base.Horsepower) && vehicle.Positive(comp.Horsepower) {
		dHP = *comp.Horsepower - *base.Horsepower
	}
	dEquip := 0.0
	if vehicle.Positive(base.EquipScore) && vehicle.Positive(comp.EquipScore) {
		dEquip = *comp.EquipScore - *base.EquipScore
	}
	dec.Contributions = []Contribution{
		{Factor: FactorHP, Amount: dHP * ref},
		{Factor: FactorEquipment, Amount: slope * dEquip},
	}

	if model.Method == MethodRegression {
		b := DesignRow(base)
		c := DesignRow(comp)
		beta := model.Coefficients
		term := func(cols ...int) float64 {
			s := 0.0
			for _, i := range cols {
				s += beta[i] * (c[i] - b[i])
			}
			return s
		}
		dec.Contributions = append(dec.Contributions,
			Contribution{Factor: Factor4x4, Amount: term(col4x4)},
			Contribution{Factor: FactorFuel, Amount: term(colElectric, colPHEV, colHybrid, colDiesel)},
			Contribution{Factor: FactorCab, Amount: term(colDoubleCab, colChassisCab, colSingleCab)},
			Contribution{Factor: FactorWarranty, Amount: term(colWarranty)},
		)
	}

	residual := decimal.NewFromFloat(dec.TotalDelta)
	for _, ct := range dec.Contributions {
		residual = residual.Sub(decimal.NewFromFloat(ct.Amount))
	}
	dec.Residual = residual.InexactFloat64()
	return dec, true
}
