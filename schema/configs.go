package schema

// OutputFormat selects how results are rendered.
type OutputFormat string

// Supported output formats.
const (
	TextOut OutputFormat = "text" // human-readable table
	CSVOut  OutputFormat = "csv"  // row-aligned (x, y, fitted, residual) table
	JSONOut OutputFormat = "json" // full report
)

// ValidOutputFormat reports whether f names a supported format.
func ValidOutputFormat(f OutputFormat) bool {
	switch f {
	case TextOut, CSVOut, JSONOut:
		return true
	}
	return false
}

// DatabaseBackend selects the run-history persistence backend.
type DatabaseBackend string

// Supported history backends.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackend reports whether b names a supported backend.
func ValidDatabaseBackend(b DatabaseBackend) bool {
	switch b {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend:
		return true
	}
	return false
}

// Pipeline defaults.
const (
	// DefaultBreakpointCount is the size of the uniform breakpoint
	// partition when none is configured.
	DefaultBreakpointCount = 30

	// MinBreakpointCount is the smallest legal partition (one segment).
	MinBreakpointCount = 2

	// DefaultNearInterpPenalty is the smoothing penalty of the first
	// fallback strategy, chosen close to interpolation.
	DefaultNearInterpPenalty = 1e-10

	// DefaultFixedPenalty is the explicit smoothing penalty of the
	// last-resort strategy.
	DefaultFixedPenalty = 0.001
)
