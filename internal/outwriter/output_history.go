package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteHistoryRuns outputs persisted runs, dispatching based on the output format configured.
func WriteHistoryRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, runs, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, runs, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
}

// writeHistoryCSV writes one record per persisted run.
func writeHistoryCSV(w io.Writer, runs []schema.RunRecord, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"id", "label", "created_at", "input", "samples", "breakpoints",
		"strategy", "rmse", "r_squared", "rel_rmse_pct", "bias_ratio",
		"within_2sigma_pct", "r_squared_verdict",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, run := range runs {
			rec := []string{
				strconv.FormatInt(run.ID, 10),
				run.Label,
				run.CreatedAt.Format(contract.DateTimeFormat),
				run.InputPath,
				fmt.Sprintf(intFmt, run.SampleCount),
				fmt.Sprintf(intFmt, run.BreakpointCount),
				string(run.Strategy),
				fmtFloat(run.RMSE),
				run.RSquared.Format(6),
				run.RelRMSEPct.Format(6),
				run.BiasRatio.Format(6),
				run.Within2SigmaPct.Format(6),
				contract.GetPlainVerdict(run.Quality.RSquared),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeHistoryTable generates and writes the human-readable run listing.
func writeHistoryTable(w io.Writer, runs []schema.RunRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Label", "Created", "Samples", "Strategy", "RMSE", "R²", "Verdict"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxLabel := getMaxTableLabelWidth(cfg)
	var data [][]string
	for _, run := range runs {
		data = append(data, []string{
			strconv.FormatInt(run.ID, 10),
			contract.TruncatePath(run.Label, maxLabel),
			run.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf(intFmt, run.SampleCount),
			string(run.Strategy),
			fmtFloat(run.RMSE),
			run.RSquared.Format(cfg.Precision),
			verdictLabel(run.Quality.RSquared, cfg),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d runs from %s history\n", len(runs), cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// WriteStatus outputs history store status information.
func WriteStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusText(w, status)
		}, "Wrote text")
	}
}

func writeStatusText(w io.Writer, status schema.HistoryStatus) error {
	if _, err := fmt.Fprintf(w, "History backend: %s\n", status.Backend); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Location: %s\n", status.Location); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Runs: %d (%d sample rows)\n", status.RunCount, status.SampleRows); err != nil {
		return err
	}
	if !status.LastRunAt.IsZero() {
		if _, err := fmt.Fprintf(w, "Last run: %s\n", status.LastRunAt.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	return nil
}
