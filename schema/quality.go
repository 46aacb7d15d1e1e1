package schema

// Verdict is a qualitative label assigned to a KPI by the classifier.
type Verdict string

// Fit quality verdicts, best to worst.
const (
	VerdictExcellent  Verdict = "Excellent"
	VerdictGood       Verdict = "Good"
	VerdictAcceptable Verdict = "Acceptable"
	VerdictModerate   Verdict = "Moderate"
	VerdictPoor       Verdict = "Poor"

	// VerdictUndefined is propagated when the underlying metric is
	// undefined. No default verdict is ever substituted.
	VerdictUndefined Verdict = "Undefined"
)

// Bias verdicts.
const (
	BiasNone        Verdict = "no systematic bias"
	BiasMinor       Verdict = "minor bias"
	BiasSignificant Verdict = "significant bias"
)

// Residual coverage verdicts.
const (
	CoverageGood  Verdict = "good (expected ~95%)"
	CoverageCheck Verdict = "check for outliers"
)

// RankedVerdicts orders fit quality verdicts from best to worst.
// Used by callers that need "at least Acceptable" style comparisons.
var RankedVerdicts = []Verdict{
	VerdictExcellent,
	VerdictGood,
	VerdictAcceptable,
	VerdictModerate,
	VerdictPoor,
}

// AtLeast reports whether v is at least as good as floor on the
// Excellent..Poor scale. Undefined verdicts never satisfy a floor.
func (v Verdict) AtLeast(floor Verdict) bool {
	rank := func(x Verdict) int {
		for i, r := range RankedVerdicts {
			if r == x {
				return i
			}
		}
		return len(RankedVerdicts)
	}
	return rank(v) <= rank(floor)
}

// QualityReport attaches a qualitative verdict to each applicable KPI.
// Purely derived from a KPISet; holds no independent state.
type QualityReport struct {
	RSquared Verdict `json:"r_squared"`
	RelRMSE  Verdict `json:"rel_rmse"`
	Bias     Verdict `json:"bias"`
	Coverage Verdict `json:"coverage"`
}

// ThresholdRule is one (boundary, label) entry of a declarative
// classification table. Rules are evaluated in order; boundaries are
// strict (> for floors, < for ceilings).
type ThresholdRule struct {
	Bound   float64 `mapstructure:"bound" json:"bound"`
	Verdict Verdict `mapstructure:"verdict" json:"verdict"`
}

// QualityThresholds is the full rule set consumed by the classifier.
// The zero value is not usable; start from DefaultQualityThresholds.
type QualityThresholds struct {
	// RSquared rules use strict floors: value > Bound wins.
	RSquared []ThresholdRule `mapstructure:"r-squared" json:"r_squared"`
	// RelRMSEPct rules use strict ceilings: value < Bound wins.
	RelRMSEPct []ThresholdRule `mapstructure:"rel-rmse-pct" json:"rel_rmse_pct"`
	// BiasRatio rules use strict ceilings: value < Bound wins.
	BiasRatio []ThresholdRule `mapstructure:"bias-ratio" json:"bias_ratio"`
	// Within2SigmaMin is the strict floor for the coverage check.
	Within2SigmaMin float64 `mapstructure:"within-2sigma-min" json:"within_2sigma_min"`

	// Fallback verdicts when no rule matches.
	RSquaredFallback   Verdict `mapstructure:"r-squared-fallback" json:"r_squared_fallback"`
	RelRMSEPctFallback Verdict `mapstructure:"rel-rmse-pct-fallback" json:"rel_rmse_pct_fallback"`
	BiasRatioFallback  Verdict `mapstructure:"bias-ratio-fallback" json:"bias_ratio_fallback"`
}

// DefaultQualityThresholds returns the baseline rule tables.
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		RSquared: []ThresholdRule{
			{Bound: 0.95, Verdict: VerdictExcellent},
			{Bound: 0.90, Verdict: VerdictGood},
			{Bound: 0.80, Verdict: VerdictAcceptable},
			{Bound: 0.70, Verdict: VerdictModerate},
		},
		RelRMSEPct: []ThresholdRule{
			{Bound: 5, Verdict: VerdictExcellent},
			{Bound: 10, Verdict: VerdictGood},
			{Bound: 15, Verdict: VerdictAcceptable},
		},
		BiasRatio: []ThresholdRule{
			{Bound: 0.05, Verdict: BiasNone},
			{Bound: 0.10, Verdict: BiasMinor},
		},
		Within2SigmaMin:    93,
		RSquaredFallback:   VerdictPoor,
		RelRMSEPctFallback: VerdictPoor,
		BiasRatioFallback:  BiasSignificant,
	}
}
