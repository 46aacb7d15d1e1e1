package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/karsk/splinefit/core"
	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteFitReport outputs one pipeline run, dispatching based on the output format configured.
func WriteFitReport(res *core.Result, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeReportJSONResults(res, cfg, duration); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeReportCSVResults(res, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(res, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// jsonReport is the full-report envelope for JSON output.
type jsonReport struct {
	Label       string               `json:"label"`
	CreatedAt   time.Time            `json:"created_at"`
	Duration    string               `json:"duration"`
	Breakpoints schema.BreakpointSet `json:"breakpoints"`
	Strategy    schema.StrategyLabel `json:"strategy"`
	KPIs        schema.KPISet        `json:"kpis"`
	Quality     schema.QualityReport `json:"quality"`
	Rows        []schema.FitRow      `json:"rows"`
}

// writeReportJSONResults handles opening the file and calling the JSON writer.
func writeReportJSONResults(res *core.Result, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, jsonReport{
			Label:       cfg.Label,
			CreatedAt:   time.Now().UTC(),
			Duration:    duration.String(),
			Breakpoints: res.Breakpoints,
			Strategy:    res.Fit.Strategy,
			KPIs:        res.KPIs,
			Quality:     res.Quality,
			Rows:        res.Rows(),
		})
	}, "Wrote JSON")
}

// writeReportCSVResults writes the row-aligned (x, y, fitted, residual) table.
func writeReportCSVResults(res *core.Result, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"x", "y", "fitted", "residual"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, row := range res.Rows() {
				rec := []string{
					fmtFloat(row.X),
					fmtFloat(row.Y),
					fmtFloat(row.Fitted),
					fmtFloat(row.Residual),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// verdictLabel renders a verdict, colored only for terminal tables.
func verdictLabel(v schema.Verdict, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorVerdict(v)
	}
	return contract.GetPlainVerdict(v)
}

// writeReportTable generates and writes the human-readable summary table.
func writeReportTable(res *core.Result, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Metric", "Value", "Assessment"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	kpis := res.KPIs
	data := [][]string{
		{"Samples", fmt.Sprintf(intFmt, kpis.SampleCount), ""},
		{"Breakpoints", fmt.Sprintf(intFmt, len(res.Breakpoints)), ""},
		{"Strategy", string(res.Fit.Strategy), ""},
		{"Squared error", fmtFloat(kpis.SquaredError), ""},
		{"Residual 2-norm", fmtFloat(kpis.ResidNorm2), ""},
		{"RMSE", fmtFloat(kpis.RMSE), ""},
		{"R²", kpis.RSquared.Format(cfg.Precision), verdictLabel(res.Quality.RSquared, cfg)},
		{"Relative RMSE %", kpis.RelRMSEPct.Format(cfg.Precision), verdictLabel(res.Quality.RelRMSE, cfg)},
		{"Bias ratio", kpis.BiasRatio.Format(cfg.Precision), verdictLabel(res.Quality.Bias, cfg)},
		{"Within ±2σ %", kpis.Within2SigmaPct.Format(cfg.Precision), verdictLabel(res.Quality.Coverage, cfg)},
		{"Residual mean", fmtFloat(kpis.ResidMean), ""},
		{"Residual std", fmtFloat(kpis.ResidStd), ""},
		{"Residual min", fmtFloat(kpis.ResidMin), ""},
		{"Residual max", fmtFloat(kpis.ResidMax), ""},
		{"Residual median |r|", fmtFloat(kpis.ResidMedianAbs), ""},
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	label := cfg.Label
	if label == "" {
		label = "stdin"
	}
	if _, err := fmt.Fprintf(writer, "Fit of %q over %s segments completed in %v\n",
		label, strconv.Itoa(res.Breakpoints.Segments()), duration); err != nil {
		return err
	}
	return nil
}
