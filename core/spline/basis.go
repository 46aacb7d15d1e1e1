// Package spline implements the spline fitting numerics: least-squares
// cubic B-spline fits on a fixed breakpoint partition and natural cubic
// smoothing splines.
package spline

// degree of every spline fitted by this package (cubic, continuous up
// to the 2nd derivative).
const degree = 3

// clampedKnots builds the clamped knot vector for a cubic B-spline
// basis on the given breakpoints: the first and last breakpoints are
// repeated degree extra times so the spline interpolates the endpoints
// of the partition. Breakpoints must be strictly increasing with
// length >= 2.
func clampedKnots(breakpoints []float64) []float64 {
	k := len(breakpoints)
	knots := make([]float64, 0, k+2*degree)
	for range degree {
		knots = append(knots, breakpoints[0])
	}
	knots = append(knots, breakpoints...)
	for range degree {
		knots = append(knots, breakpoints[k-1])
	}
	return knots
}

// basisCount returns the number of cubic B-spline basis functions on a
// clamped knot vector over k breakpoints.
func basisCount(breakpointCount int) int {
	return breakpointCount + degree - 1
}

// findSpan locates the knot span index i such that knots[i] <= x < knots[i+1],
// clamping x at or beyond the last breakpoint into the final non-empty span.
func findSpan(knots []float64, x float64) int {
	last := len(knots) - degree - 2 // index of the final basis function
	if x >= knots[last+1] {
		return last
	}
	lo, hi := degree, last+1
	mid := (lo + hi) / 2
	for x < knots[mid] || x >= knots[mid+1] {
		if x < knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
		mid = (lo + hi) / 2
	}
	return mid
}

// basisFuns evaluates the degree+1 B-spline basis functions that are
// nonzero on the given span at x (Cox-de Boor recurrence). The value at
// index j belongs to basis function span-degree+j.
func basisFuns(knots []float64, span int, x float64) [degree + 1]float64 {
	var n, left, right [degree + 1]float64
	n[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = x - knots[span+1-j]
		right[j] = knots[span+j] - x
		saved := 0.0
		for r := range j {
			tmp := n[r] / (right[r+1] + left[j-r])
			n[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		n[j] = saved
	}
	return n
}
