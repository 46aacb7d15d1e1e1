package core

import (
	"github.com/karsk/splinefit/schema"
)

// GenerateBreakpoints produces n evenly spaced breakpoints across the
// x-range of a sanitized Dataset, endpoints included.
//
// The partition is rejected rather than silently degraded: a dataset
// with fewer than two samples or a zero-width x-range cannot carry a
// meaningful partition, and n below schema.MinBreakpointCount leaves no
// segment to fit.
func GenerateBreakpoints(ds schema.Dataset, n int) (schema.BreakpointSet, error) {
	if n < schema.MinBreakpointCount {
		return nil, degenerateErr("breakpoint count %d is below the minimum %d", n, schema.MinBreakpointCount)
	}
	if ds.Len() < 2 {
		return nil, degenerateErr("dataset has %d usable samples, need at least 2", ds.Len())
	}

	lo, hi := ds.XRange()
	if lo >= hi {
		return nil, degenerateErr("x-range [%g, %g] has zero width", lo, hi)
	}

	bps := make(schema.BreakpointSet, n)
	step := (hi - lo) / float64(n-1)
	for i := range bps {
		bps[i] = lo + float64(i)*step
	}
	// Pin the last breakpoint to the exact range end; accumulated
	// floating-point steps can land short of it.
	bps[n-1] = hi

	return bps, nil
}
