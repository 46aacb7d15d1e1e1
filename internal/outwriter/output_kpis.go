package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/schema"
)

// WriteKPIDefinitions displays the formal definitions of all fit KPIs with
// the active classification bands. This is a static display that does not
// require a fit run.
func WriteKPIDefinitions(th schema.QualityThresholds, cfg *contract.Config) error {
	renderModel := buildKPIRenderModel(th)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKPIsCSV(w, renderModel)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKPIsText(w, renderModel)
		}, "Wrote text")
	}
}

// writeKPIsText displays KPI definitions in human-readable text format.
func writeKPIsText(w io.Writer, renderModel *schema.KPIRenderModel) error {
	if _, err := fmt.Fprintf(w, "📐 %s\n", renderModel.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", len(renderModel.Title)+3)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", renderModel.Description); err != nil {
		return err
	}

	for _, kpi := range renderModel.KPIs {
		if _, err := fmt.Fprintf(w, "%s\n", kpi.Name); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Formula: %s\n", kpi.Formula); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Meaning: %s\n", kpi.Interpretation); err != nil {
			return err
		}
		if len(kpi.Bands) > 0 {
			if _, err := fmt.Fprintf(w, "   Bands:   %s\n", strings.Join(kpi.Bands, "; ")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

// writeKPIsCSV displays KPI definitions in CSV format.
func writeKPIsCSV(w io.Writer, renderModel *schema.KPIRenderModel) error {
	header := []string{"kpi", "formula", "interpretation", "bands"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, kpi := range renderModel.KPIs {
			rec := []string{kpi.Name, kpi.Formula, kpi.Interpretation, strings.Join(kpi.Bands, "; ")}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// buildKPIRenderModel constructs the complete render model with the active bands.
func buildKPIRenderModel(th schema.QualityThresholds) *schema.KPIRenderModel {
	floorBands := func(rules []schema.ThresholdRule, fallback schema.Verdict) []string {
		bands := make([]string, 0, len(rules)+1)
		for _, r := range rules {
			bands = append(bands, fmt.Sprintf("> %g %s", r.Bound, r.Verdict))
		}
		return append(bands, fmt.Sprintf("else %s", fallback))
	}
	ceilingBands := func(rules []schema.ThresholdRule, fallback schema.Verdict) []string {
		bands := make([]string, 0, len(rules)+1)
		for _, r := range rules {
			bands = append(bands, fmt.Sprintf("< %g %s", r.Bound, r.Verdict))
		}
		return append(bands, fmt.Sprintf("else %s", fallback))
	}

	return &schema.KPIRenderModel{
		Title:       "Fit Quality KPIs",
		Description: "All KPIs derive from the residuals r = y - fitted. Metrics with a zero denominator are reported as undefined.",
		KPIs: []schema.KPIDefinition{
			{
				Name:           "Squared error (SE)",
				Formula:        "sum(r^2)",
				Interpretation: "Total squared deviation between data and fit",
			},
			{
				Name:           "Residual 2-norm",
				Formula:        "sqrt(SE)",
				Interpretation: "Euclidean length of the residual vector",
			},
			{
				Name:           "RMSE",
				Formula:        "sqrt(SE / n)",
				Interpretation: "Typical per-sample deviation in y units",
			},
			{
				Name:           "R²",
				Formula:        "1 - SE / sum((y - mean(y))^2)",
				Interpretation: "Fraction of y variance explained; undefined for constant y",
				Bands:          floorBands(th.RSquared, th.RSquaredFallback),
			},
			{
				Name:           "Relative RMSE %",
				Formula:        "100 * RMSE / (max(y) - min(y))",
				Interpretation: "RMSE as a percentage of the y range; undefined for constant y",
				Bands:          ceilingBands(th.RelRMSEPct, th.RelRMSEPctFallback),
			},
			{
				Name:           "Bias ratio",
				Formula:        "|mean(r)| / RMSE",
				Interpretation: "Systematic over/under-prediction; undefined on a perfect fit",
				Bands:          ceilingBands(th.BiasRatio, th.BiasRatioFallback),
			},
			{
				Name:           "Within ±2σ %",
				Formula:        "100 * count(|r - mean(r)| <= 2*std(r)) / n",
				Interpretation: "Residual coverage against the normal ~95% expectation; undefined when std(r) is zero",
				Bands: []string{
					fmt.Sprintf("> %g %s", th.Within2SigmaMin, schema.CoverageGood),
					fmt.Sprintf("else %s", schema.CoverageCheck),
				},
			},
		},
	}
}
