package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// Metric is a KPI value that may be undefined. A metric is undefined
// when its denominator is zero (constant y, perfect fit, zero residual
// spread); the undefined state is carried explicitly instead of letting
// NaN/Inf flow downstream.
type Metric struct {
	Value   float64
	Defined bool
}

// DefinedMetric returns a defined Metric holding v.
func DefinedMetric(v float64) Metric {
	return Metric{Value: v, Defined: true}
}

// UndefinedMetric returns the undefined Metric.
func UndefinedMetric() Metric {
	return Metric{Value: math.NaN(), Defined: false}
}

// Format renders the metric with the given decimal precision, or the
// literal "undefined" when the metric has no value.
func (m Metric) Format(precision int) string {
	if !m.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.*f", precision, m.Value)
}

// MarshalJSON emits the value for defined metrics and null otherwise.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts either a number or null.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = UndefinedMetric()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = DefinedMetric(v)
	return nil
}

// KPISet holds the derived quality metrics of a fit. It is immutable
// once computed: every field is a pure function of (Dataset, FitResult).
type KPISet struct {
	SampleCount int `json:"sample_count"`

	// Residuals are y - fitted, one per sample, kept for diagnostics.
	Residuals []float64 `json:"residuals"`

	SquaredError float64 `json:"squared_error"` // SE = sum of squared residuals
	ResidNorm2   float64 `json:"resid_norm2"`   // sqrt(SE)
	RMSE         float64 `json:"rmse"`          // sqrt(SE/n)

	RSquared        Metric `json:"r_squared"`         // undefined when y is constant
	RelRMSEPct      Metric `json:"rel_rmse_pct"`      // RMSE as % of y-range, undefined when y is constant
	BiasRatio       Metric `json:"bias_ratio"`        // |mean resid| / RMSE, undefined on perfect fit
	Within2SigmaPct Metric `json:"within_2sigma_pct"` // undefined when residual std is zero

	ResidMean      float64 `json:"resid_mean"`
	ResidStd       float64 `json:"resid_std"`
	ResidMin       float64 `json:"resid_min"`
	ResidMax       float64 `json:"resid_max"`
	ResidMedianAbs float64 `json:"resid_median_abs"`
}
