// Package parquet provides data structures and functions for exporting fit
// history data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/karsk/splinefit/schema"
	"github.com/parquet-go/parquet-go"
)

// FitRun represents a single persisted pipeline run with its KPI summary.
// This struct maps to the splinefit_runs database table.
type FitRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Label is the user-facing name of the run (defaults to the input file name)
	Label string `parquet:"label,snappy"`

	// CreatedAt is when the run was recorded (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// InputPath is the absolute path of the sample data file (nullable)
	InputPath *string `parquet:"input_path,optional,snappy"`

	// SampleCount is the number of sanitized samples in the run
	SampleCount int32 `parquet:"sample_count,snappy"`

	// BreakpointCount is the size of the breakpoint partition
	BreakpointCount int32 `parquet:"breakpoint_count,snappy"`

	// Strategy names the fit strategy that produced the accepted result
	Strategy string `parquet:"strategy,snappy"`

	// SquaredError is the sum of squared residuals
	SquaredError float64 `parquet:"squared_error,snappy"`

	// RMSE is the root mean squared error
	RMSE float64 `parquet:"rmse,snappy"`

	// RSquared is the coefficient of determination (nullable when undefined)
	RSquared *float64 `parquet:"r_squared,optional,snappy"`

	// RelRMSEPct is the RMSE as a percentage of the y range (nullable when undefined)
	RelRMSEPct *float64 `parquet:"rel_rmse_pct,optional,snappy"`

	// BiasRatio is |mean residual| / RMSE (nullable when undefined)
	BiasRatio *float64 `parquet:"bias_ratio,optional,snappy"`

	// Within2SigmaPct is the residual coverage percentage (nullable when undefined)
	Within2SigmaPct *float64 `parquet:"within_2sigma_pct,optional,snappy"`

	// VerdictRSquared is the qualitative R² verdict
	VerdictRSquared string `parquet:"verdict_r_squared,snappy"`

	// VerdictRelRMSE is the qualitative relative-RMSE verdict
	VerdictRelRMSE string `parquet:"verdict_rel_rmse,snappy"`

	// VerdictBias is the qualitative bias verdict
	VerdictBias string `parquet:"verdict_bias,snappy"`

	// VerdictCoverage is the qualitative residual coverage verdict
	VerdictCoverage string `parquet:"verdict_coverage,snappy"`
}

// FitSampleRow represents one row-aligned (x, y, fitted, residual) record.
// This struct maps to the splinefit_run_samples database table.
type FitSampleRow struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// Seq is the zero-based row index within the run
	Seq int32 `parquet:"seq,snappy"`

	// X is the sample abscissa
	X float64 `parquet:"x,snappy"`

	// Y is the observed value
	Y float64 `parquet:"y,snappy"`

	// Fitted is the spline value at X
	Fitted float64 `parquet:"fitted,snappy"`

	// Residual is Y - Fitted
	Residual float64 `parquet:"residual,snappy"`
}

// WriteFitRunsParquet writes a slice of FitRun structs to a Parquet file.
func WriteFitRunsParquet(data []FitRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the FitRun struct tags
	writer := parquet.NewGenericWriter[FitRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteFitSamplesParquet writes a slice of FitSampleRow structs to a Parquet file.
func WriteFitSamplesParquet(data []FitSampleRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the FitSampleRow struct tags
	writer := parquet.NewGenericWriter[FitSampleRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// metricPtr converts a Metric to a nullable float for Parquet export.
func metricPtr(m schema.Metric) *float64 {
	if !m.Defined {
		return nil
	}
	v := m.Value
	return &v
}

// ConvertRunRecords converts schema.RunRecord to FitRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []FitRun {
	result := make([]FitRun, len(records))
	for i, record := range records {
		var inputPath *string
		if record.InputPath != "" {
			p := record.InputPath
			inputPath = &p
		}
		result[i] = FitRun{
			RunID:           record.ID,
			Label:           record.Label,
			CreatedAt:       record.CreatedAt,
			InputPath:       inputPath,
			SampleCount:     int32(record.SampleCount),
			BreakpointCount: int32(record.BreakpointCount),
			Strategy:        string(record.Strategy),
			SquaredError:    record.SquaredError,
			RMSE:            record.RMSE,
			RSquared:        metricPtr(record.RSquared),
			RelRMSEPct:      metricPtr(record.RelRMSEPct),
			BiasRatio:       metricPtr(record.BiasRatio),
			Within2SigmaPct: metricPtr(record.Within2SigmaPct),
			VerdictRSquared: string(record.Quality.RSquared),
			VerdictRelRMSE:  string(record.Quality.RelRMSE),
			VerdictBias:     string(record.Quality.Bias),
			VerdictCoverage: string(record.Quality.Coverage),
		}
	}
	return result
}

// ConvertRunRows converts one run's schema.FitRow table to FitSampleRow records.
func ConvertRunRows(runID int64, rows []schema.FitRow) []FitSampleRow {
	result := make([]FitSampleRow, len(rows))
	for i, row := range rows {
		result[i] = FitSampleRow{
			RunID:    runID,
			Seq:      int32(i),
			X:        row.X,
			Y:        row.Y,
			Fitted:   row.Fitted,
			Residual: row.Residual,
		}
	}
	return result
}
