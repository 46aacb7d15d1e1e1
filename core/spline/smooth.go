package spline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitSmooth fits a natural cubic smoothing spline to (xs, ys) and
// returns the fitted values at the sample positions. The spline
// minimizes
//
//	sum_i (y_i - f(x_i))^2 + lambda * integral f''(t)^2 dt
//
// following the Reinsch/Green-Silverman formulation: solve
// (R + lambda Q^T Q) gamma = Q^T y for the interior second derivatives,
// then recover the fitted values as y - lambda*Q*gamma. The system is
// symmetric positive definite with bandwidth 2, solved with a banded
// Cholesky factorization.
//
// A small lambda approaches interpolation; larger values trade fidelity
// for smoothness. xs must be strictly increasing.
func FitSmooth(xs, ys []float64, lambda float64) ([]float64, error) {
	n := len(xs)
	if len(ys) != n {
		return nil, fmt.Errorf("mismatched input lengths: %d x values, %d y values", n, len(ys))
	}
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}
	if lambda <= 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return nil, fmt.Errorf("smoothing penalty must be a positive finite number, got %g", lambda)
	}

	// With no interior points there is no curvature to penalize and the
	// spline passes through both samples.
	if n == 2 {
		out := make([]float64, 2)
		copy(out, ys)
		return out, nil
	}

	h := make([]float64, n-1) // knot spacings
	p := make([]float64, n-1) // reciprocal spacings
	for i := range h {
		h[i] = xs[i+1] - xs[i]
		if h[i] <= 0 {
			return nil, fmt.Errorf("x values must be strictly increasing (violation at index %d)", i+1)
		}
		p[i] = 1 / h[i]
	}

	m := n - 2 // interior points carrying a second derivative

	// B = R + lambda*Q^T*Q. R is the tridiagonal roughness Gram matrix;
	// Q^T*Q is pentadiagonal, so B has bandwidth 2.
	b := mat.NewSymBandDense(m, min(2, m-1), nil)
	for i := range m {
		diag := (h[i]+h[i+1])/3 +
			lambda*(p[i]*p[i]+(p[i]+p[i+1])*(p[i]+p[i+1])+p[i+1]*p[i+1])
		b.SetSymBand(i, i, diag)
		if i+1 < m {
			off := h[i+1]/6 - lambda*p[i+1]*(p[i]+2*p[i+1]+p[i+2])
			b.SetSymBand(i, i+1, off)
		}
		if i+2 < m {
			b.SetSymBand(i, i+2, lambda*p[i+1]*p[i+2])
		}
	}

	// Right-hand side: Q^T y (second differences of y scaled by spacing).
	rhs := make([]float64, m)
	for i := range m {
		rhs[i] = p[i]*ys[i] - (p[i]+p[i+1])*ys[i+1] + p[i+1]*ys[i+2]
	}

	var chol mat.BandCholesky
	if ok := chol.Factorize(b); !ok {
		return nil, fmt.Errorf("smoothing system is not positive definite (ill-conditioned spacing)")
	}

	var gamma mat.VecDense
	if err := chol.SolveVecTo(&gamma, mat.NewVecDense(m, rhs)); err != nil {
		return nil, fmt.Errorf("smoothing solve failed: %w", err)
	}

	// Fitted values: a = y - lambda * Q * gamma. Row k of Q touches the
	// gamma entries for interior points k-2, k-1 and k where they exist.
	fitted := make([]float64, n)
	for k := range n {
		var q float64
		if k < m {
			q += p[k] * gamma.AtVec(k)
		}
		if k >= 1 && k-1 < m {
			q -= (p[k-1] + p[k]) * gamma.AtVec(k-1)
		}
		if k >= 2 && k-2 < m {
			q += p[k-1] * gamma.AtVec(k-2)
		}
		fitted[k] = ys[k] - lambda*q
	}
	return fitted, nil
}
