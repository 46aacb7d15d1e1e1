package core

import (
	"math"
	"testing"

	"github.com/karsk/splinefit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noisySine builds n samples of sin(x) over [0, 10] with a small
// deterministic perturbation, so reruns see bit-identical input.
func noisySine(n int) []schema.Sample {
	raw := make([]schema.Sample, n)
	for i := range n {
		x := 10 * float64(i) / float64(n-1)
		noise := 0.05 * math.Sin(97*x+1)
		raw[i] = schema.Sample{X: x, Y: math.Sin(x) + noise}
	}
	return raw
}

func TestRunEndToEnd(t *testing.T) {
	raw := noisySine(100)

	res, err := Run(raw, DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, res.Dataset, 100)
	assert.Len(t, res.Breakpoints, schema.DefaultBreakpointCount)
	require.Len(t, res.Fit.Fitted, 100)
	assert.True(t, res.Fit.IsFinite())
	assert.Equal(t, schema.StrategyLSQCubic, res.Fit.Strategy)

	require.True(t, res.KPIs.RSquared.Defined)
	assert.Greater(t, res.KPIs.RSquared.Value, 0.8)
	assert.True(t, res.Quality.RSquared.AtLeast(schema.VerdictAcceptable))

	rows := res.Rows()
	require.Len(t, rows, 100)
	for i, row := range rows {
		assert.Equal(t, res.Dataset[i].X, row.X)
		assert.InDelta(t, row.Y-row.Fitted, row.Residual, 1e-15)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	raw := noisySine(100)

	first, err := Run(raw, DefaultOptions())
	require.NoError(t, err)
	second, err := Run(raw, DefaultOptions())
	require.NoError(t, err)

	// Same input, same configuration: the run is a pure function and
	// both outputs must match bit for bit.
	assert.Equal(t, first.KPIs, second.KPIs)
	assert.Equal(t, first.Quality, second.Quality)
	assert.Equal(t, first.Fit, second.Fit)
	assert.Equal(t, first.Breakpoints, second.Breakpoints)
}

func TestRunCleansDirtyInput(t *testing.T) {
	raw := noisySine(60)
	raw = append(raw, schema.Sample{X: math.NaN(), Y: 1})
	raw = append(raw, schema.Sample{X: 5, Y: math.Inf(1)})
	raw = append(raw, raw[10]) // duplicate x

	res, err := Run(raw, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Dataset, 60)
	assert.True(t, res.Fit.IsFinite())
}

func TestRunDegenerateInput(t *testing.T) {
	_, err := Run([]schema.Sample{{X: 1, Y: 2}}, DefaultOptions())
	assert.ErrorIs(t, err, ErrDegenerateInput)

	_, err = Run([]schema.Sample{{X: math.NaN(), Y: 1}}, DefaultOptions())
	assert.ErrorIs(t, err, ErrDegenerateInput)
}
