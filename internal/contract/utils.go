package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/karsk/splinefit/schema"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // top fit quality
	GoodColor      = color.New(color.FgGreen)
	AcceptColor    = color.New(color.FgCyan)
	ModerateColor  = color.New(color.FgYellow)
	PoorColor      = color.New(color.FgRed, color.Bold)
	NeutralColor   = color.New(color.Faint) // undefined verdicts
)

// GetPlainVerdict returns the verdict text without color. This is the
// form used for CSV and JSON output.
func GetPlainVerdict(v schema.Verdict) string {
	return string(v)
}

// GetColorVerdict returns a colored verdict label for console output (table).
func GetColorVerdict(v schema.Verdict) string {
	switch v {
	case schema.VerdictExcellent:
		return ExcellentColor.Sprint(string(v))
	case schema.VerdictGood, schema.BiasNone, schema.CoverageGood:
		return GoodColor.Sprint(string(v))
	case schema.VerdictAcceptable:
		return AcceptColor.Sprint(string(v))
	case schema.VerdictModerate, schema.BiasMinor, schema.CoverageCheck:
		return ModerateColor.Sprint(string(v))
	case schema.VerdictPoor, schema.BiasSignificant:
		return PoorColor.Sprint(string(v))
	default:
		return NeutralColor.Sprint(string(v))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".splinefit_history.db"
	}
	return filepath.Join(homeDir, ".splinefit_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the "..." prefix and at least
// one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
