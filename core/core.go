// Package core has the fitting-and-validation pipeline: sanitization,
// breakpoint generation, the fallback fit engine, KPI derivation and
// quality classification. The pipeline is pure: it performs no I/O and
// holds no state across runs.
package core

import (
	"github.com/karsk/splinefit/schema"
)

// Options configures a single pipeline run.
type Options struct {
	// BreakpointCount is the size of the uniform partition (>= 2).
	BreakpointCount int
	// Engine holds the fallback strategy constants.
	Engine EngineOptions
	// Thresholds drive the quality classifier.
	Thresholds schema.QualityThresholds
}

// DefaultOptions returns the default configuration surface.
func DefaultOptions() Options {
	return Options{
		BreakpointCount: schema.DefaultBreakpointCount,
		Engine:          DefaultEngineOptions(),
		Thresholds:      schema.DefaultQualityThresholds(),
	}
}

// Result is the full output of one pipeline run. Every field is created
// once by its stage and never mutated afterwards; collaborators receive
// read-only access.
type Result struct {
	Dataset     schema.Dataset       `json:"-"`
	Breakpoints schema.BreakpointSet `json:"breakpoints"`
	Fit         schema.FitResult     `json:"fit"`
	KPIs        schema.KPISet        `json:"kpis"`
	Quality     schema.QualityReport `json:"quality"`
}

// Rows returns the row-aligned export table for the run.
func (r *Result) Rows() []schema.FitRow {
	return ExportRows(r.Dataset, r.Fit, r.KPIs)
}

// Run executes the whole pipeline on raw samples: sanitize, partition,
// fit with escalation, derive KPIs, classify. The stages compose
// strictly one-way; each consumes only its predecessor's output.
//
// Errors surface unrecovered: degenerate inputs from the breakpoint
// stage, exhausted fit chains from the engine. Fit-strategy failures
// below the fatal case never escape the engine.
func Run(raw []schema.Sample, opts Options) (*Result, error) {
	ds := Sanitize(raw)

	bps, err := GenerateBreakpoints(ds, opts.BreakpointCount)
	if err != nil {
		return nil, err
	}

	fit, err := FitCurve(ds, bps, opts.Engine)
	if err != nil {
		return nil, err
	}

	kpis, err := ComputeKPIs(ds, fit)
	if err != nil {
		return nil, err
	}

	return &Result{
		Dataset:     ds,
		Breakpoints: bps,
		Fit:         fit,
		KPIs:        kpis,
		Quality:     Classify(kpis, opts.Thresholds),
	}, nil
}
