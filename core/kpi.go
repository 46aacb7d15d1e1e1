package core

import (
	"math"
	"sort"

	"github.com/karsk/splinefit/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ComputeKPIs derives the quality metrics of a fit. All values are pure
// deterministic functions of (Dataset, FitResult); metrics whose
// denominator is zero come back explicitly undefined instead of NaN/Inf.
//
// The Dataset and FitResult must be aligned: one fitted value per
// sample, same order.
func ComputeKPIs(ds schema.Dataset, fit schema.FitResult) (schema.KPISet, error) {
	n := ds.Len()
	if n == 0 {
		return schema.KPISet{}, degenerateErr("cannot compute KPIs for an empty dataset")
	}
	if len(fit.Fitted) != n {
		return schema.KPISet{}, degenerateErr("fit has %d values for %d samples", len(fit.Fitted), n)
	}

	ys := ds.Ys()
	residuals := make([]float64, n)
	floats.SubTo(residuals, ys, fit.Fitted)

	se := floats.Dot(residuals, residuals)
	rmse := math.Sqrt(se / float64(n))

	kpis := schema.KPISet{
		SampleCount:  n,
		Residuals:    residuals,
		SquaredError: se,
		ResidNorm2:   math.Sqrt(se),
		RMSE:         rmse,

		ResidMean:      stat.Mean(residuals, nil),
		ResidStd:       popStdDev(residuals),
		ResidMin:       floats.Min(residuals),
		ResidMax:       floats.Max(residuals),
		ResidMedianAbs: medianAbs(residuals),
	}

	// R^2 and relative RMSE share the constant-y degeneracy.
	meanY := stat.Mean(ys, nil)
	var ssTot float64
	for _, y := range ys {
		d := y - meanY
		ssTot += d * d
	}
	if ssTot > 0 {
		kpis.RSquared = schema.DefinedMetric(1 - se/ssTot)
	} else {
		kpis.RSquared = schema.UndefinedMetric()
	}

	yRange := floats.Max(ys) - floats.Min(ys)
	if yRange > 0 {
		kpis.RelRMSEPct = schema.DefinedMetric(100 * rmse / yRange)
	} else {
		kpis.RelRMSEPct = schema.UndefinedMetric()
	}

	// Bias ratio degenerates on a perfect fit.
	if rmse > 0 {
		kpis.BiasRatio = schema.DefinedMetric(math.Abs(kpis.ResidMean) / rmse)
	} else {
		kpis.BiasRatio = schema.UndefinedMetric()
	}

	// Coverage degenerates when the residuals have no spread.
	if kpis.ResidStd > 0 {
		within := 0
		for _, r := range residuals {
			if math.Abs((r-kpis.ResidMean)/kpis.ResidStd) <= 2 {
				within++
			}
		}
		kpis.Within2SigmaPct = schema.DefinedMetric(100 * float64(within) / float64(n))
	} else {
		kpis.Within2SigmaPct = schema.UndefinedMetric()
	}

	return kpis, nil
}

// popStdDev is the population standard deviation (divisor n).
func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := stat.Mean(values, nil)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// medianAbs returns the median of the absolute values.
func medianAbs(values []float64) float64 {
	abs := make([]float64, len(values))
	for i, v := range values {
		abs[i] = math.Abs(v)
	}
	sort.Float64s(abs)

	n := len(abs)
	if n%2 == 1 {
		return abs[n/2]
	}
	return (abs[n/2-1] + abs[n/2]) / 2
}

// ExportRows builds the row-aligned (x, y, fitted, residual) table
// handed to the table-export collaborator, one row per sample.
func ExportRows(ds schema.Dataset, fit schema.FitResult, kpis schema.KPISet) []schema.FitRow {
	rows := make([]schema.FitRow, ds.Len())
	for i, s := range ds {
		rows[i] = schema.FitRow{
			X:        s.X,
			Y:        s.Y,
			Fitted:   fit.Fitted[i],
			Residual: kpis.Residuals[i],
		}
	}
	return rows
}
