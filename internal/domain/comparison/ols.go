package comparison

import (
	"errors"
	"math"
)

// DefaultPivotEpsilon is the smallest absolute pivot accepted during
// elimination before the system is declared singular.
const DefaultPivotEpsilon = 1e-8

var (
	// ErrUnderdetermined is returned when there are fewer rows than columns.
	ErrUnderdetermined = errors.New("comparison: fewer training rows than model columns")

	// ErrSingularSystem is returned when the normal equations have no unique solution.
	ErrSingularSystem = errors.New("comparison: singular normal equations")

	// ErrShapeMismatch is returned for ragged design matrices.
	ErrShapeMismatch = errors.New("comparison: design matrix shape mismatch")
)

// FitOLS solves the ordinary least squares problem X·β ≈ y by forming the
// normal equations XᵗX·β = Xᵗy and running Gaussian elimination with partial
// pivoting. A pivot whose magnitude falls below pivotEps aborts with
// ErrSingularSystem. A non-positive pivotEps selects DefaultPivotEpsilon.
func FitOLS(x [][]float64, y []float64, pivotEps float64) ([]float64, error) {
	if pivotEps <= 0 {
		pivotEps = DefaultPivotEpsilon
	}
	n := len(x)
	if n == 0 || n != len(y) {
		return nil, ErrShapeMismatch
	}
	p := len(x[0])
	for _, row := range x {
		if len(row) != p {
			return nil, ErrShapeMismatch
		}
	}
	if p == 0 {
		return nil, ErrShapeMismatch
	}
	if n < p {
		return nil, ErrUnderdetermined
	}

	// Augmented matrix [XᵗX | Xᵗy].
	a := make([][]float64, p)
	for i := 0; i < p; i++ {
		a[i] = make([]float64, p+1)
		for j := 0; j < p; j++ {
			s := 0.0
			for k := 0; k < n; k++ {
				s += x[k][i] * x[k][j]
			}
			a[i][j] = s
		}
		s := 0.0
		for k := 0; k < n; k++ {
			s += x[k][i] * y[k]
		}
		a[i][p] = s
	}
	return solveGaussian(a, pivotEps)
}

// solveGaussian solves the p×(p+1) augmented system in place.
func solveGaussian(a [][]float64, pivotEps float64) ([]float64, error) {
	p := len(a)
	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < pivotEps || math.IsNaN(a[pivot][col]) {
			return nil, ErrSingularSystem
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := col + 1; r < p; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for c := col; c <= p; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	beta := make([]float64, p)
	for i := p - 1; i >= 0; i-- {
		s := a[i][p]
		for j := i + 1; j < p; j++ {
			s -= a[i][j] * beta[j]
		}
		beta[i] = s / a[i][i]
	}
	for _, b := range beta {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, ErrSingularSystem
		}
	}
	return beta, nil
}

// Line is a fitted y = Slope·x + Intercept.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 { return l.Slope*x + l.Intercept }

// FitLine is bivariate least squares over finite (x, y) pairs. It needs at
// least two points with distinct x values.
func FitLine(xs, ys []float64) (Line, bool) {
	if len(xs) != len(ys) {
		return Line{}, false
	}
	var sx, sy float64
	n := 0
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			continue
		}
		sx += xs[i]
		sy += ys[i]
		n++
	}
	if n < 2 {
		return Line{}, false
	}
	mx, my := sx/float64(n), sy/float64(n)
	var sxx, sxy float64
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			continue
		}
		dx := xs[i] - mx
		sxx += dx * dx
		sxy += dx * (ys[i] - my)
	}
	if sxx == 0 {
		return Line{}, false
	}
	slope := sxy / sxx
	return Line{Slope: slope, Intercept: my - slope*mx}, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
