package core

import (
	"github.com/karsk/splinefit/schema"
)

// Classify maps a KPISet to qualitative verdicts using the declarative
// threshold tables. Boundaries are strict: a value sitting exactly on a
// rule bound falls through to the next rule. Undefined metrics yield
// VerdictUndefined; no defaults are substituted.
func Classify(kpis schema.KPISet, th schema.QualityThresholds) schema.QualityReport {
	return schema.QualityReport{
		RSquared: classifyFloor(kpis.RSquared, th.RSquared, th.RSquaredFallback),
		RelRMSE:  classifyCeiling(kpis.RelRMSEPct, th.RelRMSEPct, th.RelRMSEPctFallback),
		Bias:     classifyCeiling(kpis.BiasRatio, th.BiasRatio, th.BiasRatioFallback),
		Coverage: classifyCoverage(kpis.Within2SigmaPct, th.Within2SigmaMin),
	}
}

// classifyFloor walks the ordered rules and returns the first verdict
// whose bound the value strictly exceeds.
func classifyFloor(m schema.Metric, rules []schema.ThresholdRule, fallback schema.Verdict) schema.Verdict {
	if !m.Defined {
		return schema.VerdictUndefined
	}
	for _, rule := range rules {
		if m.Value > rule.Bound {
			return rule.Verdict
		}
	}
	return fallback
}

// classifyCeiling walks the ordered rules and returns the first verdict
// whose bound the value is strictly below.
func classifyCeiling(m schema.Metric, rules []schema.ThresholdRule, fallback schema.Verdict) schema.Verdict {
	if !m.Defined {
		return schema.VerdictUndefined
	}
	for _, rule := range rules {
		if m.Value < rule.Bound {
			return rule.Verdict
		}
	}
	return fallback
}

func classifyCoverage(m schema.Metric, floor float64) schema.Verdict {
	if !m.Defined {
		return schema.VerdictUndefined
	}
	if m.Value > floor {
		return schema.CoverageGood
	}
	return schema.CoverageCheck
}
