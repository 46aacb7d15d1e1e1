// Package cmd defines the command-line interface for splinefit.
package cmd

import (
	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(kpisCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("breakpoints", "b", schema.DefaultBreakpointCount, "Number of uniform breakpoints for the spline partition")
	rootCmd.PersistentFlags().Float64("near-interp-penalty", schema.DefaultNearInterpPenalty, "Smoothing penalty of the near-interpolation fallback")
	rootCmd.PersistentFlags().Float64("fixed-penalty", schema.DefaultFixedPenalty, "Smoothing penalty of the last-resort fallback")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("label", "", "Run label stored in history (defaults to the data file name)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of fitCmd to Viper
	fitCmd.Flags().String("plot-file", "", "Write a fit overview plot (PNG) to this path")
	fitCmd.Flags().String("residual-plot-file", "", "Write a residual diagnostics plot (PNG) to this path")
	if err := viper.BindPFlags(fitCmd.Flags()); err != nil {
		contract.LogFatal("Error binding fit flags", err)
	}

	// Bind all flags of historyListCmd to Viper
	historyListCmd.Flags().IntP("limit", "l", 10, "Number of runs to display")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
