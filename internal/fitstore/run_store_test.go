package fitstore

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/karsk/splinefit/core"
	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipelineResult(t *testing.T) *core.Result {
	t.Helper()
	samples := make([]schema.Sample, 80)
	for i := range samples {
		x := float64(i) / 79
		samples[i] = schema.Sample{X: x, Y: math.Sin(2*math.Pi*x) + 0.05*math.Sin(97*x+1)}
	}
	res, err := core.Run(samples, core.DefaultOptions())
	require.NoError(t, err)
	return res
}

func newTestStore(t *testing.T) contract.RunStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(label string) schema.RunRecord {
	return schema.RunRecord{
		Label:           label,
		CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		InputPath:       "/data/" + label,
		SampleCount:     3,
		BreakpointCount: 30,
		Strategy:        schema.StrategyLSQCubic,
		SquaredError:    0.5,
		RMSE:            0.408,
		RSquared:        schema.DefinedMetric(0.97),
		RelRMSEPct:      schema.DefinedMetric(4.1),
		BiasRatio:       schema.UndefinedMetric(),
		Within2SigmaPct: schema.DefinedMetric(100),
		Quality: schema.QualityReport{
			RSquared: schema.VerdictExcellent,
			RelRMSE:  schema.VerdictExcellent,
			Bias:     schema.VerdictUndefined,
			Coverage: schema.CoverageGood,
		},
	}
}

func sampleRows() []schema.FitRow {
	return []schema.FitRow{
		{X: 0, Y: 1, Fitted: 1.1, Residual: -0.1},
		{X: 1, Y: 2, Fitted: 1.9, Residual: 0.1},
		{X: 2, Y: 3, Fitted: 3.0, Residual: 0},
	}
}

func TestRecordAndGetRun(t *testing.T) {
	store := newTestStore(t)

	id, err := store.RecordRun(sampleRun("a.txt"), sampleRows())
	require.NoError(t, err)
	require.Positive(t, id)

	run, err := store.GetRun(id)
	require.NoError(t, err)

	assert.Equal(t, "a.txt", run.Label)
	assert.Equal(t, "/data/a.txt", run.InputPath)
	assert.Equal(t, 3, run.SampleCount)
	assert.Equal(t, schema.StrategyLSQCubic, run.Strategy)
	assert.Equal(t, schema.DefinedMetric(0.97), run.RSquared)
	// Undefined metrics survive the round trip as NULL, not as NaN.
	assert.False(t, run.BiasRatio.Defined)
	assert.Equal(t, schema.VerdictUndefined, run.Quality.Bias)
	assert.True(t, run.CreatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	rows, err := store.GetRunRows(id)
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), rows)
}

func TestGetRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	for _, label := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := store.RecordRun(sampleRun(label), sampleRows())
		require.NoError(t, err)
	}

	runs, err := store.GetRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.txt", runs[0].Label)
	assert.Equal(t, "b.txt", runs[1].Label)

	_, err = store.GetRuns(0)
	assert.Error(t, err)
}

func TestGetStatus(t *testing.T) {
	store := newTestStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
	assert.Zero(t, status.RunCount)

	_, err = store.RecordRun(sampleRun("a.txt"), sampleRows())
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.RunCount)
	assert.Equal(t, int64(3), status.SampleRows)
	assert.True(t, status.LastRunAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	_, err := store.RecordRun(sampleRun("a.txt"), sampleRows())
	require.NoError(t, err)
	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.RunCount)
	assert.Zero(t, status.SampleRows)
}

func TestNoneBackendIsNoOp(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.RecordRun(sampleRun("a.txt"), sampleRows())
	require.NoError(t, err)
	assert.Zero(t, id)

	runs, err := store.GetRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = store.GetRun(1)
	assert.Error(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, status.Backend)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Close())
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := NewRunStore(schema.DatabaseBackend("mongodb"), "")
	assert.Error(t, err)
}

func TestBuildRunRecord(t *testing.T) {
	cfg := &contract.Config{Label: "bench.txt", InputPath: "/data/bench.txt"}
	res := testPipelineResult(t)
	createdAt := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	run := BuildRunRecord(cfg, res, createdAt)
	assert.Equal(t, "bench.txt", run.Label)
	assert.Equal(t, res.KPIs.SampleCount, run.SampleCount)
	assert.Equal(t, len(res.Breakpoints), run.BreakpointCount)
	assert.Equal(t, res.Fit.Strategy, run.Strategy)
	assert.Equal(t, res.KPIs.RSquared, run.RSquared)
	assert.Equal(t, res.Quality, run.Quality)
	assert.True(t, run.CreatedAt.Equal(createdAt))
}
