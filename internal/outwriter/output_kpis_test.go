package outwriter

import (
	"bytes"
	"testing"

	"github.com/karsk/splinefit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKPIRenderModel(t *testing.T) {
	model := buildKPIRenderModel(schema.DefaultQualityThresholds())

	require.Len(t, model.KPIs, 7)
	names := make([]string, len(model.KPIs))
	for i, kpi := range model.KPIs {
		names[i] = kpi.Name
	}
	assert.Contains(t, names, "RMSE")
	assert.Contains(t, names, "R²")
	assert.Contains(t, names, "Bias ratio")

	// The active bands reflect the threshold tables, strict bounds included.
	var rsq schema.KPIDefinition
	for _, kpi := range model.KPIs {
		if kpi.Name == "R²" {
			rsq = kpi
		}
	}
	require.NotEmpty(t, rsq.Bands)
	assert.Equal(t, "> 0.95 Excellent", rsq.Bands[0])
	assert.Equal(t, "else Poor", rsq.Bands[len(rsq.Bands)-1])
}

func TestWriteKPIsText(t *testing.T) {
	var buf bytes.Buffer
	err := writeKPIsText(&buf, buildKPIRenderModel(schema.DefaultQualityThresholds()))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Fit Quality KPIs")
	assert.Contains(t, out, "sqrt(SE / n)")
	assert.Contains(t, out, "> 0.95 Excellent")
	assert.Contains(t, out, "undefined")
}

func TestWriteKPIsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeKPIsCSV(&buf, buildKPIRenderModel(schema.DefaultQualityThresholds()))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "kpi,formula,interpretation,bands")
	assert.Contains(t, out, "Relative RMSE %")
}
