package chart

import (
	"fmt"
	"math"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/comparison"
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

// SeriesKind is the drawing primitive for a series.
type SeriesKind string

const (
	KindScatter SeriesKind = "scatter"
	KindLine    SeriesKind = "line"
	KindBar     SeriesKind = "bar"
	KindRadar   SeriesKind = "radar"
)

// Point is a plotted value. X and Y are display positions; RawX and RawY
// keep the data values before jitter.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	RawX float64 `json:"rawX"`
	RawY float64 `json:"rawY"`
	Key  string  `json:"key,omitempty"`
}

// Series is one renderer-agnostic data series.
type Series struct {
	Name   string     `json:"name"`
	Kind   SeriesKind `json:"kind"`
	Color  string     `json:"color,omitempty"`
	Symbol string     `json:"symbol,omitempty"`
	Dashed bool       `json:"dashed,omitempty"`
	Points []Point    `json:"points,omitempty"`
	Values []float64  `json:"values,omitempty"`
}

// Chart groups series with axis labels and optional overlays.
type Chart struct {
	Title     string     `json:"title"`
	XLabel    string     `json:"xLabel"`
	YLabel    string     `json:"yLabel"`
	Series    []Series   `json:"series"`
	Trend     *Trendline `json:"trend,omitempty"`
	IsoLevels []float64  `json:"isoLevels,omitempty"`
}

// Options tune the chart builders.
type Options struct {
	Jitter       JitterOptions
	IsoSteps     []float64
	IsoMaxLevels int
}

// DefaultOptions returns the standard jitter and iso-cost settings.
func DefaultOptions() Options {
	return Options{
		Jitter:       DefaultJitterOptions(),
		IsoSteps:     DefaultIsoSteps,
		IsoMaxLevels: DefaultIsoMaxLevels,
	}
}

type accessor func(*vehicle.Record) (float64, bool)

func equipScoreOf(r *vehicle.Record) (float64, bool) {
	if vehicle.Positive(r.EquipScore) {
		return *r.EquipScore, true
	}
	return 0, false
}

func horsepowerOf(r *vehicle.Record) (float64, bool) {
	if vehicle.Positive(r.Horsepower) {
		return *r.Horsepower, true
	}
	return 0, false
}

func priceOf(r *vehicle.Record) (float64, bool) { return r.Price() }

// scatter builds one series per record with both coordinates available,
// jittered and styled, plus a trendline over the raw values.
func scatter(records []*vehicle.Record, styles *Styles, x, y accessor, jopts JitterOptions) ([]Series, []Point) {
	var pts []Point
	var recs []*vehicle.Record
	for _, r := range records {
		if r == nil {
			continue
		}
		xv, okX := x(r)
		yv, okY := y(r)
		if !okX || !okY {
			continue
		}
		pts = append(pts, Point{X: xv, Y: yv, RawX: xv, RawY: yv, Key: vehicle.KeyForRow(r)})
		recs = append(recs, r)
	}
	pts = Jitter(pts, jopts)

	series := make([]Series, 0, len(pts))
	for i, p := range pts {
		series = append(series, Series{
			Name:   recs[i].Label(),
			Kind:   KindScatter,
			Color:  styles.Color(recs[i]),
			Symbol: styles.Symbol(recs[i]),
			Points: []Point{p},
		})
	}
	return series, pts
}

// PriceVsScore plots price against equipment score with a trendline.
func PriceVsScore(records []*vehicle.Record, styles *Styles, opts Options) Chart {
	series, pts := scatter(records, styles, equipScoreOf, priceOf, opts.Jitter)
	c := Chart{Title: "Price vs equipment score", XLabel: "Equipment score", YLabel: "Price", Series: series}
	if tr, ok := FitTrend(pts); ok {
		c.Trend = tr
		c.Series = append(c.Series, tr.Series("Trend"))
	}
	return c
}

// PriceVsHorsepower plots price against horsepower with a trendline and
// dashed iso-cost-per-horsepower guide lines.
func PriceVsHorsepower(records []*vehicle.Record, styles *Styles, opts Options) Chart {
	series, pts := scatter(records, styles, horsepowerOf, priceOf, opts.Jitter)
	c := Chart{Title: "Price vs horsepower", XLabel: "Horsepower", YLabel: "Price", Series: series}
	if tr, ok := FitTrend(pts); ok {
		c.Trend = tr
		c.Series = append(c.Series, tr.Series("Trend"))
	}

	var ratios []float64
	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		if p.RawX > 0 {
			ratios = append(ratios, p.RawY/p.RawX)
			xMin = math.Min(xMin, p.RawX)
			xMax = math.Max(xMax, p.RawX)
		}
	}
	c.IsoLevels = IsoCostLevels(ratios, opts.IsoSteps, opts.IsoMaxLevels)
	c.Series = append(c.Series, IsoCostLines(c.IsoLevels, xMin, xMax)...)
	return c
}

// WaterfallBar is one step of a price-gap waterfall.
type WaterfallBar struct {
	Factor string  `json:"factor"`
	Amount float64 `json:"amount"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Total  bool    `json:"total,omitempty"`
}

// Waterfall lays the decomposition out as cumulative bars ending in a total
// bar equal to the observed price gap.
func Waterfall(dec comparison.Decomposition) []WaterfallBar {
	steps := dec.Waterfall()
	out := make([]WaterfallBar, 0, len(steps)+1)
	running := 0.0
	for _, s := range steps {
		out = append(out, WaterfallBar{Factor: s.Factor, Amount: s.Amount, Start: running, End: running + s.Amount})
		running += s.Amount
	}
	return append(out, WaterfallBar{Factor: "Total", Amount: dec.TotalDelta, Start: 0, End: dec.TotalDelta, Total: true})
}

// WaterfallSeries renders the waterfall as a bar series of amounts.
func WaterfallSeries(dec comparison.Decomposition) Series {
	bars := Waterfall(dec)
	s := Series{Name: fmt.Sprintf("Price gap vs %s", dec.CompetitorKey), Kind: KindBar}
	for _, b := range bars {
		s.Values = append(s.Values, b.Amount)
	}
	return s
}
