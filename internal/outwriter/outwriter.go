// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/karsk/splinefit/core"
	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints one pipeline run using the configured output format.
func (ow *OutWriter) WriteReport(res *core.Result, cfg *contract.Config, duration time.Duration) error {
	return WriteFitReport(res, cfg, duration)
}

// WriteHistory prints persisted runs using the configured output format.
func (ow *OutWriter) WriteHistory(runs []schema.RunRecord, cfg *contract.Config) error {
	return WriteHistoryRuns(runs, cfg)
}

// WriteHistoryStatus prints history store status information.
func (ow *OutWriter) WriteHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return WriteStatus(status, cfg)
}

// WriteKPIs prints the formal KPI definitions using the configured output format.
func (ow *OutWriter) WriteKPIs(th schema.QualityThresholds, cfg *contract.Config) error {
	return WriteKPIDefinitions(th, cfg)
}

// getMaxTableLabelWidth calculates the maximum width for run labels and
// input paths in table output based on terminal width.
func getMaxTableLabelWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed numeric columns with borders/padding:
	// ID + Created + Samples + Strategy + RMSE + R2 + Verdict.
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable label width
		return 12
	}
	if available > 50 {
		// Maximum label width to prevent overly long rows
		return 50
	}
	return available
}
