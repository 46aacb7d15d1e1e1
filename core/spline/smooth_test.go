package spline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitSmoothNearInterpolation(t *testing.T) {
	// With a vanishing penalty the smoothing spline approaches the
	// interpolant, so fitted values approach the data.
	xs, ys := gridSamples(50, 0, 10, math.Sin)

	fitted, err := FitSmooth(xs, ys, 1e-10)
	require.NoError(t, err)
	require.Len(t, fitted, len(xs))

	for i := range xs {
		assert.InDelta(t, ys[i], fitted[i], 1e-6)
	}
}

func TestFitSmoothLineIsInvariant(t *testing.T) {
	// Straight lines have zero roughness, so any penalty leaves them
	// unchanged.
	line := func(x float64) float64 { return 3*x - 7 }
	xs, ys := gridSamples(25, -2, 2, line)

	for _, lambda := range []float64{1e-10, 0.001, 10} {
		fitted, err := FitSmooth(xs, ys, lambda)
		require.NoError(t, err)
		for i := range xs {
			assert.InDelta(t, ys[i], fitted[i], 1e-9, "lambda=%g x=%v", lambda, xs[i])
		}
	}
}

func TestFitSmoothPenaltyIncreasesResidual(t *testing.T) {
	xs, ys := gridSamples(80, 0, 6, math.Sin)

	se := func(lambda float64) float64 {
		fitted, err := FitSmooth(xs, ys, lambda)
		require.NoError(t, err)
		var sum float64
		for i := range ys {
			r := ys[i] - fitted[i]
			sum += r * r
		}
		return sum
	}

	assert.Less(t, se(1e-10), se(0.001))
	assert.Less(t, se(0.001), se(10.0))
}

func TestFitSmoothTwoSamples(t *testing.T) {
	fitted, err := FitSmooth([]float64{0, 1}, []float64{4, 9}, 0.001)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 9}, fitted)
}

func TestFitSmoothThreeSamples(t *testing.T) {
	fitted, err := FitSmooth([]float64{0, 1, 2}, []float64{0, 1, 0}, 1e-10)
	require.NoError(t, err)
	require.Len(t, fitted, 3)
	for i, want := range []float64{0, 1, 0} {
		assert.InDelta(t, want, fitted[i], 1e-6)
	}
}

func TestFitSmoothInputValidation(t *testing.T) {
	_, err := FitSmooth([]float64{1}, []float64{1}, 0.001)
	assert.Error(t, err)

	_, err = FitSmooth([]float64{1, 2, 3}, []float64{1, 2}, 0.001)
	assert.Error(t, err)

	_, err = FitSmooth([]float64{1, 2, 3}, []float64{1, 2, 3}, 0)
	assert.Error(t, err)

	_, err = FitSmooth([]float64{1, 2, 3}, []float64{1, 2, 3}, math.NaN())
	assert.Error(t, err)

	// non-increasing x
	_, err = FitSmooth([]float64{1, 1, 3}, []float64{1, 2, 3}, 0.001)
	assert.Error(t, err)
}
