package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		verdict  Verdict
		floor    Verdict
		expected bool
	}{
		{"excellent beats acceptable", VerdictExcellent, VerdictAcceptable, true},
		{"good beats acceptable", VerdictGood, VerdictAcceptable, true},
		{"acceptable meets acceptable", VerdictAcceptable, VerdictAcceptable, true},
		{"moderate misses acceptable", VerdictModerate, VerdictAcceptable, false},
		{"poor misses moderate", VerdictPoor, VerdictModerate, false},
		{"undefined misses everything", VerdictUndefined, VerdictPoor, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.verdict.AtLeast(tt.floor))
		})
	}
}

func TestDefaultQualityThresholds(t *testing.T) {
	th := DefaultQualityThresholds()

	assert.Len(t, th.RSquared, 4)
	assert.Equal(t, 0.95, th.RSquared[0].Bound)
	assert.Equal(t, VerdictExcellent, th.RSquared[0].Verdict)
	assert.Equal(t, VerdictPoor, th.RSquaredFallback)

	assert.Len(t, th.RelRMSEPct, 3)
	assert.Equal(t, 5.0, th.RelRMSEPct[0].Bound)

	assert.Len(t, th.BiasRatio, 2)
	assert.Equal(t, BiasSignificant, th.BiasRatioFallback)

	assert.Equal(t, 93.0, th.Within2SigmaMin)
}
