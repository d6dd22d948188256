package chart

import (
	"fmt"
	"math"
)

// JitterOptions control how coincident points are spread.
type JitterOptions struct {
	// Step is the x offset added per duplicate within a bucket.
	Step float64
	// XDecimals is the rounding precision of x when bucketing.
	XDecimals int
	// YUnit is the rounding unit of y when bucketing.
	YUnit float64
}

// DefaultJitterOptions spreads duplicates by 0.6 on x, bucketing x to whole
// units and y to thousands.
func DefaultJitterOptions() JitterOptions {
	return JitterOptions{Step: 0.6, XDecimals: 0, YUnit: 1000}
}

// Jitter offsets points that fall into the same rounded (x, y) bucket: the
// k-th duplicate (k from 0) moves k·Step along x. Raw values are preserved
// and the input slice is not modified.
func Jitter(points []Point, opts JitterOptions) []Point {
	if opts.YUnit <= 0 {
		opts.YUnit = 1
	}
	scale := math.Pow(10, float64(opts.XDecimals))
	seen := make(map[string]int, len(points))
	out := make([]Point, len(points))
	for i, p := range points {
		key := fmt.Sprintf("%d|%d", int64(math.Round(p.RawX*scale)), int64(math.Round(p.RawY/opts.YUnit)))
		k := seen[key]
		seen[key] = k + 1
		p.X = p.RawX + float64(k)*opts.Step
		p.Y = p.RawY
		out[i] = p
	}
	return out
}
