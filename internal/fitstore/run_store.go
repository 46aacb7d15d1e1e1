// Package fitstore persists pipeline runs to a SQL history store.
package fitstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run history.
const (
	runsTable    = "splinefit_runs"
	samplesTable = "splinefit_run_samples"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	location   string
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	var db *sql.DB
	var err error
	var driverName, location string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		location = dbPath
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		location = connStr
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		location = connStr
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled history
		return &RunStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database server is running and accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	// Create the table schemas
	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &RunStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		location:   location,
	}, nil
}

// createRunTables creates the run history tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{samplesTable, getCreateSamplesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// quoteTableName quotes an identifier for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// getCreateRunsQuery returns the CREATE TABLE query for splinefit_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				label VARCHAR(255) NOT NULL,
				created_at DATETIME(6) NOT NULL,
				input_path VARCHAR(512),
				sample_count INT NOT NULL,
				breakpoint_count INT NOT NULL,
				strategy VARCHAR(50) NOT NULL,
				squared_error DOUBLE NOT NULL,
				rmse DOUBLE NOT NULL,
				r_squared DOUBLE,
				rel_rmse_pct DOUBLE,
				bias_ratio DOUBLE,
				within_2sigma_pct DOUBLE,
				verdict_r_squared VARCHAR(50) NOT NULL,
				verdict_rel_rmse VARCHAR(50) NOT NULL,
				verdict_bias VARCHAR(50) NOT NULL,
				verdict_coverage VARCHAR(50) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				label TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				input_path TEXT,
				sample_count INT NOT NULL,
				breakpoint_count INT NOT NULL,
				strategy TEXT NOT NULL,
				squared_error DOUBLE PRECISION NOT NULL,
				rmse DOUBLE PRECISION NOT NULL,
				r_squared DOUBLE PRECISION,
				rel_rmse_pct DOUBLE PRECISION,
				bias_ratio DOUBLE PRECISION,
				within_2sigma_pct DOUBLE PRECISION,
				verdict_r_squared TEXT NOT NULL,
				verdict_rel_rmse TEXT NOT NULL,
				verdict_bias TEXT NOT NULL,
				verdict_coverage TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				label TEXT NOT NULL,
				created_at TEXT NOT NULL,
				input_path TEXT,
				sample_count INTEGER NOT NULL,
				breakpoint_count INTEGER NOT NULL,
				strategy TEXT NOT NULL,
				squared_error REAL NOT NULL,
				rmse REAL NOT NULL,
				r_squared REAL,
				rel_rmse_pct REAL,
				bias_ratio REAL,
				within_2sigma_pct REAL,
				verdict_r_squared TEXT NOT NULL,
				verdict_rel_rmse TEXT NOT NULL,
				verdict_bias TEXT NOT NULL,
				verdict_coverage TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateSamplesQuery returns the CREATE TABLE query for splinefit_run_samples.
func getCreateSamplesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(samplesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				seq INT NOT NULL,
				x DOUBLE NOT NULL,
				y DOUBLE NOT NULL,
				fitted DOUBLE NOT NULL,
				residual DOUBLE NOT NULL,
				PRIMARY KEY (run_id, seq)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				seq INT NOT NULL,
				x DOUBLE PRECISION NOT NULL,
				y DOUBLE PRECISION NOT NULL,
				fitted DOUBLE PRECISION NOT NULL,
				residual DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, seq)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				seq INTEGER NOT NULL,
				x REAL NOT NULL,
				y REAL NOT NULL,
				fitted REAL NOT NULL,
				residual REAL NOT NULL,
				PRIMARY KEY (run_id, seq)
			);
		`, quotedTableName)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

// metricValue converts a Metric to a nullable SQL value.
func metricValue(m schema.Metric) any {
	if !m.Defined {
		return nil
	}
	return m.Value
}

// scanMetric converts a nullable SQL value back to a Metric.
func scanMetric(v sql.NullFloat64) schema.Metric {
	if !v.Valid {
		return schema.UndefinedMetric()
	}
	return schema.DefinedMetric(v.Float64)
}

// RecordRun persists one pipeline run with its sample rows and returns the run ID.
func (rs *RunStoreImpl) RecordRun(run schema.RunRecord, rows []schema.FitRow) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	quotedRuns := quoteTableName(runsTable, rs.backend)
	runArgs := []any{
		run.Label, formatTime(run.CreatedAt, rs.backend), run.InputPath,
		run.SampleCount, run.BreakpointCount, string(run.Strategy),
		run.SquaredError, run.RMSE,
		metricValue(run.RSquared), metricValue(run.RelRMSEPct),
		metricValue(run.BiasRatio), metricValue(run.Within2SigmaPct),
		string(run.Quality.RSquared), string(run.Quality.RelRMSE),
		string(run.Quality.Bias), string(run.Quality.Coverage),
	}

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (label, created_at, input_path, sample_count, breakpoint_count,
			strategy, squared_error, rmse, r_squared, rel_rmse_pct, bias_ratio, within_2sigma_pct,
			verdict_r_squared, verdict_rel_rmse, verdict_bias, verdict_coverage)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING run_id`, quotedRuns)
		if err := tx.QueryRow(query, runArgs...).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (label, created_at, input_path, sample_count, breakpoint_count,
			strategy, squared_error, rmse, r_squared, rel_rmse_pct, bias_ratio, within_2sigma_pct,
			verdict_r_squared, verdict_rel_rmse, verdict_bias, verdict_coverage)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedRuns)
		result, err := tx.Exec(query, runArgs...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get run ID: %w", err)
		}
	}

	quotedSamples := quoteTableName(samplesTable, rs.backend)
	var sampleQuery string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		sampleQuery = fmt.Sprintf(`INSERT INTO %s (run_id, seq, x, y, fitted, residual) VALUES ($1, $2, $3, $4, $5, $6)`, quotedSamples)
	default:
		sampleQuery = fmt.Sprintf(`INSERT INTO %s (run_id, seq, x, y, fitted, residual) VALUES (?, ?, ?, ?, ?, ?)`, quotedSamples)
	}

	stmt, err := tx.Prepare(sampleQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows {
		if _, err := stmt.Exec(runID, i, row.X, row.Y, row.Fitted, row.Residual); err != nil {
			return 0, fmt.Errorf("failed to insert sample row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// runColumns is the select list shared by GetRun and GetRuns.
const runColumns = `run_id, label, created_at, input_path, sample_count, breakpoint_count,
	strategy, squared_error, rmse, r_squared, rel_rmse_pct, bias_ratio, within_2sigma_pct,
	verdict_r_squared, verdict_rel_rmse, verdict_bias, verdict_coverage`

// scanRun scans one run row from either *sql.Row or *sql.Rows.
func (rs *RunStoreImpl) scanRun(scan func(dest ...any) error) (schema.RunRecord, error) {
	var run schema.RunRecord
	var strategy string
	var rsq, rel, bias, cov sql.NullFloat64
	var vRsq, vRel, vBias, vCov string

	var err error
	switch rs.backend {
	case schema.SQLiteBackend:
		var createdAtStr string
		err = scan(&run.ID, &run.Label, &createdAtStr, &run.InputPath, &run.SampleCount,
			&run.BreakpointCount, &strategy, &run.SquaredError, &run.RMSE,
			&rsq, &rel, &bias, &cov, &vRsq, &vRel, &vBias, &vCov)
		if err == nil {
			run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
		}
	default: // MySQL and PostgreSQL store as native datetime
		err = scan(&run.ID, &run.Label, &run.CreatedAt, &run.InputPath, &run.SampleCount,
			&run.BreakpointCount, &strategy, &run.SquaredError, &run.RMSE,
			&rsq, &rel, &bias, &cov, &vRsq, &vRel, &vBias, &vCov)
	}
	if err != nil {
		return schema.RunRecord{}, err
	}

	run.Strategy = schema.StrategyLabel(strategy)
	run.RSquared = scanMetric(rsq)
	run.RelRMSEPct = scanMetric(rel)
	run.BiasRatio = scanMetric(bias)
	run.Within2SigmaPct = scanMetric(cov)
	run.Quality = schema.QualityReport{
		RSquared: schema.Verdict(vRsq),
		RelRMSE:  schema.Verdict(vRel),
		Bias:     schema.Verdict(vBias),
		Coverage: schema.Verdict(vCov),
	}
	return run, nil
}

// GetRun returns a single run by ID.
func (rs *RunStoreImpl) GetRun(id int64) (schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return schema.RunRecord{}, fmt.Errorf("history is disabled (backend none)")
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE run_id = $1`, runColumns, quotedTableName)
	default:
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE run_id = ?`, runColumns, quotedTableName)
	}

	row := rs.db.QueryRow(query, id)
	run, err := rs.scanRun(row.Scan)
	if err != nil {
		return schema.RunRecord{}, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	return run, nil
}

// GetRuns returns the most recent runs, newest first.
func (rs *RunStoreImpl) GetRuns(limit int) ([]schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0 (received %d)", limit)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT %s FROM %s ORDER BY run_id DESC LIMIT $1`, runColumns, quotedTableName)
	default:
		query = fmt.Sprintf(`SELECT %s FROM %s ORDER BY run_id DESC LIMIT ?`, runColumns, quotedTableName)
	}

	rows, err := rs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		run, err := rs.scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		results = append(results, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// GetRunRows returns the persisted (x, y, fitted, residual) table of a run.
func (rs *RunStoreImpl) GetRunRows(id int64) ([]schema.FitRow, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(samplesTable, rs.backend)
	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT x, y, fitted, residual FROM %s WHERE run_id = $1 ORDER BY seq`, quotedTableName)
	default:
		query = fmt.Sprintf(`SELECT x, y, fitted, residual FROM %s WHERE run_id = ? ORDER BY seq`, quotedTableName)
	}

	rows, err := rs.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query sample rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FitRow
	for rows.Next() {
		var row schema.FitRow
		if err := rows.Scan(&row.X, &row.Y, &row.Fitted, &row.Residual); err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sample rows: %w", err)
	}

	return results, nil
}

// GetStatus returns status information about the history store.
func (rs *RunStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:  rs.backend,
		Location: rs.location,
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	if err := rs.db.QueryRow(runsQuery).Scan(&status.RunCount); err != nil {
		return status, fmt.Errorf("failed to get run count: %w", err)
	}

	samplesQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(samplesTable, rs.backend))
	if err := rs.db.QueryRow(samplesQuery).Scan(&status.SampleRows); err != nil {
		return status, fmt.Errorf("failed to get sample row count: %w", err)
	}

	if status.RunCount > 0 {
		lastRunQuery := fmt.Sprintf("SELECT created_at FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, rs.backend))
		row := rs.db.QueryRow(lastRunQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var lastRunStr string
			if err := row.Scan(&lastRunStr); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
			lastRun, err := time.Parse(time.RFC3339Nano, lastRunStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRunAt = lastRun
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.LastRunAt); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
		}
	}

	return status, nil
}

// Clear removes all persisted runs.
func (rs *RunStoreImpl) Clear() error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	for _, table := range []string{samplesTable, runsTable} {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, rs.backend))
		if _, err := rs.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
