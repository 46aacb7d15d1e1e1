package cmd

import (
	"fmt"

	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/internal/fitstore"
	"github.com/karsk/splinefit/internal/outwriter"
	"github.com/karsk/splinefit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded fit runs",
	Long: `Manage the history of recorded fit runs.

When a history backend is configured, every fit run is stored with:
- Run metadata (label, timestamp, input path, strategy)
- The full KPI summary with quality verdicts
- The row-aligned (x, y, fitted, residual) sample table

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show recorded runs, newest first
  status  - Show history store statistics
  clear   - Remove all recorded runs
  export  - Export runs and sample rows to Parquet
  migrate - Run database schema migrations

Examples:
  # Show the latest runs
  splinefit history list --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  splinefit history export --history-backend sqlite --output-file fits.parquet`,
}

// historyListCmd lists recorded runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recorded fit runs, newest first",
	Long: `List recorded fit runs with their KPI summaries, newest first.

Each row shows the run label, timestamp, sample count, winning strategy,
RMSE, R² and the overall verdict. Use --output csv or --output json for
machine-readable forms.

Examples:
  # Show the last 10 runs
  splinefit history list --history-backend sqlite

  # Show more runs as JSON
  splinefit history list --history-backend sqlite --limit 50 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		limit := viper.GetInt("limit")
		if limit < 1 || limit > contract.MaxHistoryLimit {
			contract.LogFatal("Invalid limit",
				fmt.Errorf("limit must be between 1 and %d (received %d)", contract.MaxHistoryLimit, limit))
		}

		runs, err := fitstore.Manager.GetHistoryStore().GetRuns(limit)
		if err != nil {
			contract.LogFatal("Failed to list run history", err)
		}
		if err := outwriter.NewOutWriter().WriteHistory(runs, cfg); err != nil {
			contract.LogFatal("Failed to write run history", err)
		}
	},
}

// historyStatusCmd shows history store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history store statistics and connection details",
	Long: `Show detailed information about the run history store.

Displays:
- Backend type and location
- Total number of recorded runs
- Total stored sample rows
- Timestamp of the most recent run

Examples:
  # Check history status
  splinefit history status --history-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := fitstore.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		if err := outwriter.NewOutWriter().WriteHistoryStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write history status", err)
		}
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded fit runs",
	Long: `Delete all recorded runs and their sample tables.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Truncates the history tables

Examples:
  # Export before clearing
  splinefit history export --history-backend sqlite --output-file backup
  splinefit history clear --history-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := cfg.HistoryDBConnect
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		if err := fitstore.ClearHistory(cfg.HistoryBackend, dbPath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for analytics",
	Long: `Export all recorded runs to Parquet format for use with analytics tools.

Exports two datasets:
- Runs - metadata and KPI summary of each recorded fit
- Sample rows - the (x, y, fitted, residual) table of every run

Requires: --output-file parameter (used as the file prefix)

Examples:
  # Export all data
  splinefit history export --history-backend sqlite --output-file fits

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('fits.runs.parquet') LIMIT 10"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := fitstore.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  splinefit history migrate --history-backend sqlite

  # Rollback to initial state
  splinefit history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := fitstore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
