package fitstore

import (
	"errors"
	"fmt"

	"github.com/karsk/splinefit/internal/parquet"
)

// ExecuteHistoryExport exports the persisted run history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.RunCount == 0 {
		return errors.New("no fit history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.RunCount)
	fmt.Printf("Total sample rows: %d\n", status.SampleRows)

	runs, err := store.GetRuns(int(status.RunCount))
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	var sampleRows []parquet.FitSampleRow
	for _, run := range runs {
		rows, err := store.GetRunRows(run.ID)
		if err != nil {
			return fmt.Errorf("failed to retrieve sample rows for run %d: %w", run.ID, err)
		}
		sampleRows = append(sampleRows, parquet.ConvertRunRows(run.ID, rows)...)
	}

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteFitRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	// Write sample rows to Parquet
	samplesFile := outputFile + ".samples.parquet"
	if err := parquet.WriteFitSamplesParquet(sampleRows, samplesFile); err != nil {
		return fmt.Errorf("failed to write sample rows: %w", err)
	}
	fmt.Printf("Exported %d sample rows to: %s\n", len(sampleRows), samplesFile)

	return nil
}
