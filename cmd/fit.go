package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/karsk/splinefit/core"
	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/internal/dataio"
	"github.com/karsk/splinefit/internal/fitstore"
	"github.com/karsk/splinefit/internal/outwriter"
	"github.com/karsk/splinefit/internal/plotview"
	"github.com/karsk/splinefit/schema"
	"github.com/spf13/cobra"
)

// fitCmd runs the full fitting-and-validation pipeline on a data file.
var fitCmd = &cobra.Command{
	Use:   "fit <data-file>",
	Short: "Fit a cubic spline to a sample data file and report fit KPIs.",
	Long: `Fit a cubic spline through the samples in a data file and judge the result.

The data file is plain text: one "x y" pair per line, whitespace separated,
with '#' starting a comment. Samples with NaN or infinite values are dropped
and only the first observation at a duplicated x is kept.

The fit escalates through three strategies until one produces finite values:
least-squares cubic, near-interpolation smoothing, fixed-penalty smoothing.
The report covers squared error, RMSE, R², relative RMSE, bias ratio and
residual coverage, each with a qualitative verdict.

Examples:
  # Fit with defaults and print a report table
  splinefit fit samples.txt

  # Use a denser partition and export the row table to CSV
  splinefit fit samples.txt --breakpoints 50 --output csv --output-file rows.csv

  # Render diagnostic plots alongside the report
  splinefit fit samples.txt --plot-file fit.png --residual-plot-file resid.png

  # Record the run in the local history store
  splinefit fit samples.txt --history-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := executeFit(); err != nil {
			contract.LogFatal("Cannot run fit", err)
		}
	},
}

// executeFit loads the samples, runs the pipeline and writes all outputs.
func executeFit() error {
	start := time.Now()

	samples, err := dataio.LoadFile(cfg.InputPath)
	if err != nil {
		return err
	}

	opts := core.Options{
		BreakpointCount: cfg.Breakpoints,
		Engine: core.EngineOptions{
			NearInterpPenalty: cfg.NearInterpPenalty,
			FixedPenalty:      cfg.FixedPenalty,
		},
		Thresholds: cfg.Thresholds,
	}

	res, err := core.Run(samples, opts)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	ow := outwriter.NewOutWriter()
	if err := ow.WriteReport(res, cfg, duration); err != nil {
		return err
	}

	if cfg.PlotFile != "" {
		if err := plotview.WriteOverviewPlot(res, cfg.PlotFile); err != nil {
			return fmt.Errorf("failed to write plot: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Saved fit plot to %s\n", cfg.PlotFile)
	}
	if cfg.ResidualPlotFile != "" {
		if err := plotview.WriteResidualPlot(res, cfg.ResidualPlotFile); err != nil {
			return fmt.Errorf("failed to write residual plot: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Saved residual plot to %s\n", cfg.ResidualPlotFile)
	}

	// Record the run after reporting; a history failure never discards
	// an already-computed fit.
	if cfg.HistoryBackend != schema.NoneBackend {
		run := fitstore.BuildRunRecord(cfg, res, time.Now().UTC())
		if _, err := fitstore.Manager.GetHistoryStore().RecordRun(run, res.Rows()); err != nil {
			contract.LogWarn("Failed to record run history", err)
		}
	}

	return nil
}
