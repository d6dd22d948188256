package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/comparison"
)

// Iso-cost defaults.
var DefaultIsoSteps = []float64{250, 500, 1000, 2000, 5000}

const (
	DefaultIsoMaxLevels = 4
	minIsoLevels        = 3
)

// Trendline is a least-squares fit over the raw point values.
type Trendline struct {
	comparison.Line
	XMin float64 `json:"xMin"`
	XMax float64 `json:"xMax"`
}

// Series renders the trendline as a two-point dashed line.
func (t *Trendline) Series(name string) Series {
	return Series{
		Name:   name,
		Kind:   KindLine,
		Dashed: true,
		Points: []Point{
			{X: t.XMin, Y: t.At(t.XMin), RawX: t.XMin, RawY: t.At(t.XMin)},
			{X: t.XMax, Y: t.At(t.XMax), RawX: t.XMax, RawY: t.At(t.XMax)},
		},
	}
}

// FitTrend fits a line through the raw values of points. It needs two
// points with distinct x values.
func FitTrend(points []Point) (*Trendline, bool) {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		xs = append(xs, p.RawX)
		ys = append(ys, p.RawY)
		xMin = math.Min(xMin, p.RawX)
		xMax = math.Max(xMax, p.RawX)
	}
	line, ok := comparison.FitLine(xs, ys)
	if !ok {
		return nil, false
	}
	return &Trendline{Line: line, XMin: xMin, XMax: xMax}, true
}

// IsoCostLevels picks constant price-per-horsepower levels spanning ratios.
// The smallest step from steps that covers the range in at most maxLevels
// levels wins (the largest step otherwise). Levels start at the last
// multiple of the step at or below the minimum ratio, or at the minimum
// itself when that multiple would be zero, and run until one reaches the
// maximum. At least three levels are returned, padded on whichever side is
// nearer the middle of the data. Non-positive ratios are ignored.
func IsoCostLevels(ratios []float64, steps []float64, maxLevels int) []float64 {
	if len(steps) == 0 {
		steps = DefaultIsoSteps
	}
	if maxLevels <= 0 {
		maxLevels = DefaultIsoMaxLevels
	}
	sorted := append([]float64(nil), steps...)
	sort.Float64s(sorted)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range ratios {
		if r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r) {
			lo = math.Min(lo, r)
			hi = math.Max(hi, r)
		}
	}
	if math.IsInf(lo, 1) {
		return nil
	}

	span := func(step float64) (float64, int) {
		start := math.Floor(lo/step) * step
		if start <= 0 {
			start = lo
		}
		return start, int(math.Ceil((hi-start)/step-1e-9)) + 1
	}

	step := sorted[len(sorted)-1]
	for _, s := range sorted {
		if s <= 0 {
			continue
		}
		if _, n := span(s); n <= maxLevels {
			step = s
			break
		}
	}
	start, n := span(step)

	levels := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		levels = append(levels, start+float64(i)*step)
	}
	mid := (lo + hi) / 2
	for len(levels) < minIsoLevels {
		below := levels[0] - step
		above := levels[len(levels)-1] + step
		if below > 0 && mid-below <= above-mid {
			levels = append([]float64{below}, levels...)
		} else {
			levels = append(levels, above)
		}
	}
	return levels
}

// IsoCostLines draws each level as a dashed price = level·hp line over
// [xMin, xMax].
func IsoCostLines(levels []float64, xMin, xMax float64) []Series {
	if len(levels) == 0 || math.IsInf(xMin, 0) || math.IsInf(xMax, 0) || xMax < xMin {
		return nil
	}
	out := make([]Series, 0, len(levels))
	for _, l := range levels {
		out = append(out, Series{
			Name:   fmt.Sprintf("%.0f per hp", l),
			Kind:   KindLine,
			Dashed: true,
			Points: []Point{
				{X: xMin, Y: l * xMin, RawX: xMin, RawY: l * xMin},
				{X: xMax, Y: l * xMax, RawX: xMax, RawY: l * xMax},
			},
		})
	}
	return out
}
