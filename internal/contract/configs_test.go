package contract

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/karsk/splinefit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		Breakpoints:       schema.DefaultBreakpointCount,
		NearInterpPenalty: schema.DefaultNearInterpPenalty,
		FixedPenalty:      schema.DefaultFixedPenalty,
		Precision:         DefaultPrecision,
		Output:            "text",
		Color:             "yes",
		HistoryBackend:    "none",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	err := ProcessAndValidate(cfg, validRawInput())
	require.NoError(t, err)

	assert.Equal(t, schema.DefaultBreakpointCount, cfg.Breakpoints)
	assert.Equal(t, schema.DefaultNearInterpPenalty, cfg.NearInterpPenalty)
	assert.Equal(t, schema.DefaultFixedPenalty, cfg.FixedPenalty)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.DefaultQualityThresholds(), cfg.Thresholds)
}

func TestProcessAndValidateRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"breakpoints too small", func(in *ConfigRawInput) { in.Breakpoints = 1 }},
		{"breakpoints too large", func(in *ConfigRawInput) { in.Breakpoints = MaxBreakpointCount + 1 }},
		{"zero near-interp penalty", func(in *ConfigRawInput) { in.NearInterpPenalty = 0 }},
		{"negative fixed penalty", func(in *ConfigRawInput) { in.FixedPenalty = -0.1 }},
		{"nan penalty", func(in *ConfigRawInput) { in.NearInterpPenalty = math.NaN() }},
		{"infinite penalty", func(in *ConfigRawInput) { in.FixedPenalty = math.Inf(1) }},
		{"precision too low", func(in *ConfigRawInput) { in.Precision = 0 }},
		{"precision too high", func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 }},
		{"unknown output", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"unknown backend", func(in *ConfigRawInput) { in.HistoryBackend = "mongodb" }},
		{"bad color", func(in *ConfigRawInput) { in.Color = "maybe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestProcessAndValidateOutputCaseInsensitive(t *testing.T) {
	input := validRawInput()
	input.Output = "JSON"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.JSONOut, cfg.Output)
}

func TestProcessThresholdOverrides(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	input := validRawInput()
	input.Thresholds.RSquaredExcellent = f(0.99)
	input.Thresholds.Within2SigmaMin = f(90)

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 0.99, cfg.Thresholds.RSquared[0].Bound)
	assert.Equal(t, 0.90, cfg.Thresholds.RSquared[1].Bound)
	assert.Equal(t, 90.0, cfg.Thresholds.Within2SigmaMin)
}

func TestProcessThresholdOrdering(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	// Excellent bound below Good makes Good unreachable.
	input := validRawInput()
	input.Thresholds.RSquaredExcellent = f(0.85)
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input = validRawInput()
	input.Thresholds.RelRMSEGood = f(3) // below the Excellent ceiling of 5
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input = validRawInput()
	input.Thresholds.Within2SigmaMin = f(100)
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestResolveInputPath(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "samples.txt")
	require.NoError(t, os.WriteFile(dataFile, []byte("0 1\n"), 0o644))

	input := validRawInput()
	input.InputPathStr = dataFile

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, dataFile, cfg.InputPath)
	assert.Equal(t, "samples.txt", cfg.Label)

	// Explicit label wins over the file-derived default.
	input.Label = "run-42"
	cfg = &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "run-42", cfg.Label)
}

func TestResolveInputPathErrors(t *testing.T) {
	input := validRawInput()
	input.InputPathStr = filepath.Join(t.TempDir(), "missing.txt")
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input = validRawInput()
	input.InputPathStr = t.TempDir()
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))

	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@host/db"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/splinefit"))

	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=splinefit"))
}
