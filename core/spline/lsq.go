package spline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitLSQ fits a least-squares cubic B-spline constrained to the given
// breakpoints and returns the fitted values at every sample position.
// xs must be sorted ascending and spanned by the breakpoints.
//
// Failure modes are all recoverable by the caller: too few samples for
// the basis size, a spline segment with no sample support, or an
// ill-conditioned normal system.
func FitLSQ(xs, ys, breakpoints []float64) ([]float64, error) {
	n := len(xs)
	if len(ys) != n {
		return nil, fmt.Errorf("mismatched input lengths: %d x values, %d y values", n, len(ys))
	}
	if len(breakpoints) < 2 {
		return nil, fmt.Errorf("need at least 2 breakpoints, got %d", len(breakpoints))
	}

	m := basisCount(len(breakpoints))
	if n < m {
		return nil, fmt.Errorf("insufficient samples: %d samples for %d basis functions", n, m)
	}

	knots := clampedKnots(breakpoints)

	// Design matrix: row per sample, column per basis function. Each row
	// has at most degree+1 nonzero entries.
	design := mat.NewDense(n, m, nil)
	support := make([]bool, m)
	for i, x := range xs {
		span := findSpan(knots, x)
		vals := basisFuns(knots, span, x)
		for j := 0; j <= degree; j++ {
			col := span - degree + j
			design.Set(i, col, vals[j])
			if vals[j] != 0 {
				support[col] = true
			}
		}
	}

	// Schoenberg-Whitney style pre-check: a basis function with no
	// sample in its support makes the system rank deficient.
	for col, ok := range support {
		if !ok {
			return nil, fmt.Errorf("spline basis %d has no sample support (too few points per segment)", col)
		}
	}

	var qr mat.QR
	qr.Factorize(design)

	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, mat.NewVecDense(n, ys)); err != nil {
		return nil, fmt.Errorf("least-squares solve failed: %w", err)
	}
	for i := range m {
		if c := coef.AtVec(i); math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("least-squares solve produced non-finite coefficient at %d", i)
		}
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &coef)

	out := make([]float64, n)
	for i := range n {
		out[i] = fitted.AtVec(i)
	}
	return out, nil
}
