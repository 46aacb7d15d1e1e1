package spline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampedKnots(t *testing.T) {
	bps := []float64{0, 1, 2, 3}
	knots := clampedKnots(bps)

	require.Len(t, knots, len(bps)+2*degree)
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 2, 3, 3, 3, 3}, knots)
}

func TestBasisCount(t *testing.T) {
	// Cubic basis on k clamped breakpoints has k+2 functions.
	assert.Equal(t, 4, basisCount(2))
	assert.Equal(t, 32, basisCount(30))
}

func TestFindSpan(t *testing.T) {
	knots := clampedKnots([]float64{0, 1, 2, 3})

	tests := []struct {
		name string
		x    float64
		span int
	}{
		{"first segment", 0.5, 3},
		{"left endpoint", 0, 3},
		{"second segment", 1.5, 4},
		{"third segment", 2.5, 5},
		{"right endpoint clamps into last segment", 3, 5},
		{"beyond right endpoint clamps", 3.1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.span, findSpan(knots, tt.x))
		})
	}
}

func TestBasisFunsPartitionOfUnity(t *testing.T) {
	knots := clampedKnots([]float64{0, 0.7, 1.9, 2.4, 3})

	for _, x := range []float64{0, 0.1, 0.69, 0.7, 1.0, 1.89, 2.0, 2.9, 3} {
		span := findSpan(knots, x)
		vals := basisFuns(knots, span, x)

		sum := 0.0
		for _, v := range vals {
			assert.GreaterOrEqual(t, v, 0.0, "basis value at x=%v", x)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "partition of unity at x=%v", x)
	}
}
