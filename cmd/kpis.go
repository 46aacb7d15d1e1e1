package cmd

import (
	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/internal/outwriter"
	"github.com/spf13/cobra"
)

// kpisCmd displays the formal definitions of all fit KPIs.
var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Display mathematical formulas and verdict bands for all fit KPIs",
	Long: `Show the formal definitions, formulas and verdict thresholds for all fit KPIs.

Provides complete transparency into how fits are judged, including:
- What each KPI measures and when it is undefined
- The mathematical formula behind it
- The verdict bands, reflecting custom thresholds from .splinefit.yaml

No fitting is performed - this is purely informational.

Examples:
  # Show default KPI definitions
  splinefit kpis

  # View with custom thresholds from config file
  splinefit kpis --config .splinefit.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.NewOutWriter().WriteKPIs(cfg.Thresholds, cfg); err != nil {
			contract.LogFatal("Cannot display KPI definitions", err)
		}
	},
}
