// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/karsk/splinefit/schema"
)

// RunStore defines the operations of the run-history layer.
// This allows command and MCP handlers to be tested without a real database.
type RunStore interface {
	// RecordRun persists one pipeline run with its row-aligned sample
	// table and returns the new run ID.
	RecordRun(run schema.RunRecord, rows []schema.FitRow) (int64, error)

	// GetRun returns a single run by ID.
	GetRun(id int64) (schema.RunRecord, error)

	// GetRuns returns the most recent runs, newest first.
	GetRuns(limit int) ([]schema.RunRecord, error)

	// GetRunRows returns the persisted (x, y, fitted, residual) table of a run.
	GetRunRows(id int64) ([]schema.FitRow, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Clear removes all persisted runs.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
