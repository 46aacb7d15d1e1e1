package core

import (
	"github.com/karsk/splinefit/core/spline"
	"github.com/karsk/splinefit/schema"
)

// EngineOptions configures the fallback strategies of the fit engine.
type EngineOptions struct {
	// NearInterpPenalty is the smoothing penalty of the first fallback,
	// chosen close to interpolation.
	NearInterpPenalty float64
	// FixedPenalty is the explicit smoothing penalty of the last-resort
	// fallback.
	FixedPenalty float64
}

// DefaultEngineOptions returns the default fallback constants.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		NearInterpPenalty: schema.DefaultNearInterpPenalty,
		FixedPenalty:      schema.DefaultFixedPenalty,
	}
}

// strategy is one entry of the ordered fallback chain.
type strategy struct {
	label schema.StrategyLabel
	fit   func(xs, ys []float64) ([]float64, error)
}

// FitCurve runs the ordered fallback chain against a sanitized Dataset
// and its BreakpointSet, returning the first successful fit:
//
//  1. least-squares cubic spline constrained to the breakpoints,
//  2. smoothing spline with a near-interpolation penalty,
//  3. smoothing spline with a fixed explicit penalty.
//
// Any error escalates unconditionally to the next strategy; there are
// no retries within a stage. A strategy wins only if every fitted value
// is finite. When the chain is exhausted the returned error is a
// *FitExhaustedError carrying the per-strategy reasons.
func FitCurve(ds schema.Dataset, bps schema.BreakpointSet, opts EngineOptions) (schema.FitResult, error) {
	if ds.Len() < 2 {
		return schema.FitResult{}, degenerateErr("dataset has %d usable samples, need at least 2", ds.Len())
	}

	xs, ys := ds.Xs(), ds.Ys()

	chain := []strategy{
		{
			label: schema.StrategyLSQCubic,
			fit: func(xs, ys []float64) ([]float64, error) {
				return spline.FitLSQ(xs, ys, bps)
			},
		},
		{
			label: schema.StrategySmoothNearInterp,
			fit: func(xs, ys []float64) ([]float64, error) {
				return spline.FitSmooth(xs, ys, opts.NearInterpPenalty)
			},
		},
		{
			label: schema.StrategySmoothFixed,
			fit: func(xs, ys []float64) ([]float64, error) {
				return spline.FitSmooth(xs, ys, opts.FixedPenalty)
			},
		},
	}

	var attempts []StrategyFailure
	for _, s := range chain {
		fitted, err := s.fit(xs, ys)
		if err != nil {
			attempts = append(attempts, StrategyFailure{Strategy: s.label, Reason: err.Error()})
			continue
		}

		result := schema.FitResult{Fitted: fitted, Strategy: s.label}
		if !result.IsFinite() {
			attempts = append(attempts, StrategyFailure{Strategy: s.label, Reason: "fit produced non-finite values"})
			continue
		}
		return result, nil
	}

	return schema.FitResult{}, &FitExhaustedError{Attempts: attempts}
}
