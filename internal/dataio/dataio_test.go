package dataio

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/karsk/splinefit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBasic(t *testing.T) {
	input := `
# header comment
0.0 1.5
1.0 2.5  # trailing comment

2.0	-3.25
`
	samples, err := Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []schema.Sample{
		{X: 0, Y: 1.5},
		{X: 1, Y: 2.5},
		{X: 2, Y: -3.25},
	}, samples)
}

func TestLoadScientificAndSpecialValues(t *testing.T) {
	input := "1e-3 2.5e2\n2 NaN\n3 +Inf\n"

	samples, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, schema.Sample{X: 0.001, Y: 250}, samples[0])
	// Non-finite values parse; dropping them is the sanitizer's job.
	assert.True(t, math.IsNaN(samples[1].Y))
	assert.True(t, math.IsInf(samples[2].Y, 1))
}

func TestLoadStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errPart string
	}{
		{"one column", "1.0\n", "line 1: expected 2 columns, got 1"},
		{"three columns", "1 2 3\n", "line 1: expected 2 columns, got 3"},
		{"bad x", "abc 2\n", `line 1: invalid x value "abc"`},
		{"bad y", "0 1\n1 two\n", `line 2: invalid y value "two"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	samples, err := Load(strings.NewReader("# only comments\n\n"))
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1\n1 2\n"), 0o644))

	samples, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, samples, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("1 2 3\n"), 0o644))
	_, err = LoadFile(bad)
	require.Error(t, err)
	// File loads prefix errors with the path.
	assert.Contains(t, err.Error(), "bad.txt")
}
