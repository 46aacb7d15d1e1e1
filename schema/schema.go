// Package schema has configs, models and shared types for all parts of splinefit.
package schema

import "math"

// Sample is a single observed (x, y) pair.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are finite numbers.
func (s Sample) IsFinite() bool {
	return !math.IsNaN(s.X) && !math.IsInf(s.X, 0) &&
		!math.IsNaN(s.Y) && !math.IsInf(s.Y, 0)
}

// Dataset is an ordered sequence of samples. A sanitized Dataset has
// strictly increasing x values with no NaN/Inf coordinates.
type Dataset []Sample

// Len returns the number of samples.
func (d Dataset) Len() int { return len(d) }

// Xs returns the x coordinates in order.
func (d Dataset) Xs() []float64 {
	xs := make([]float64, len(d))
	for i, s := range d {
		xs[i] = s.X
	}
	return xs
}

// Ys returns the y coordinates in order.
func (d Dataset) Ys() []float64 {
	ys := make([]float64, len(d))
	for i, s := range d {
		ys[i] = s.Y
	}
	return ys
}

// XRange returns the minimum and maximum x values.
// Assumes the Dataset is sanitized (sorted by x).
func (d Dataset) XRange() (lo, hi float64) {
	if len(d) == 0 {
		return 0, 0
	}
	return d[0].X, d[len(d)-1].X
}

// BreakpointSet is an ordered, strictly increasing sequence of domain
// values spanning the x-range of a Dataset. Piecewise polynomial
// segments of the fitted spline may change at each breakpoint.
type BreakpointSet []float64

// Segments returns the number of spline segments implied by the set.
func (b BreakpointSet) Segments() int {
	if len(b) < 2 {
		return 0
	}
	return len(b) - 1
}

// StrategyLabel identifies which fitting strategy produced a FitResult.
type StrategyLabel string

// Fitting strategies, in escalation order.
const (
	StrategyLSQCubic         StrategyLabel = "lsq-cubic"
	StrategySmoothNearInterp StrategyLabel = "smooth-near-interp"
	StrategySmoothFixed      StrategyLabel = "smooth-fixed"
)

// FitResult holds the fitted values evaluated at every input x,
// in the same order as the Dataset, plus the winning strategy label.
type FitResult struct {
	Fitted   []float64     `json:"fitted"`
	Strategy StrategyLabel `json:"strategy"`
}

// IsFinite reports whether every fitted value is a finite number.
func (f *FitResult) IsFinite() bool {
	for _, v := range f.Fitted {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FitRow is one row of the row-aligned export table handed to the
// table-export collaborator: one row per input sample.
type FitRow struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Fitted   float64 `json:"fitted"`
	Residual float64 `json:"residual"`
}
