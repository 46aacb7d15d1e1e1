package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleIsFinite(t *testing.T) {
	tests := []struct {
		name     string
		sample   Sample
		expected bool
	}{
		{"finite pair", Sample{X: 1, Y: 2}, true},
		{"nan x", Sample{X: math.NaN(), Y: 2}, false},
		{"nan y", Sample{X: 1, Y: math.NaN()}, false},
		{"pos inf y", Sample{X: 1, Y: math.Inf(1)}, false},
		{"neg inf x", Sample{X: math.Inf(-1), Y: 2}, false},
		{"zero pair", Sample{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sample.IsFinite())
		})
	}
}

func TestDatasetAccessors(t *testing.T) {
	ds := Dataset{{X: 0, Y: 5}, {X: 1, Y: 6}, {X: 2, Y: 7}}

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []float64{0, 1, 2}, ds.Xs())
	assert.Equal(t, []float64{5, 6, 7}, ds.Ys())

	lo, hi := ds.XRange()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 2.0, hi)
}

func TestDatasetXRangeEmpty(t *testing.T) {
	lo, hi := Dataset{}.XRange()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestBreakpointSetSegments(t *testing.T) {
	assert.Equal(t, 0, BreakpointSet{}.Segments())
	assert.Equal(t, 0, BreakpointSet{1}.Segments())
	assert.Equal(t, 1, BreakpointSet{1, 2}.Segments())
	assert.Equal(t, 29, make(BreakpointSet, 30).Segments())
}

func TestFitResultIsFinite(t *testing.T) {
	ok := FitResult{Fitted: []float64{1, 2, 3}, Strategy: StrategyLSQCubic}
	assert.True(t, ok.IsFinite())

	bad := FitResult{Fitted: []float64{1, math.NaN(), 3}, Strategy: StrategyLSQCubic}
	assert.False(t, bad.IsFinite())

	inf := FitResult{Fitted: []float64{1, math.Inf(1)}, Strategy: StrategySmoothFixed}
	assert.False(t, inf.IsFinite())

	empty := FitResult{}
	assert.True(t, empty.IsFinite())
}
