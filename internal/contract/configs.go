package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/karsk/splinefit/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 4
	MaxPrecision       = 8
	MaxBreakpointCount = 10000
	MaxHistoryLimit    = 1000
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ThresholdsRawInput holds quality threshold overrides from the YAML config
// file. Use float64 pointers so absent keys fall back to defaults.
type ThresholdsRawInput struct {
	RSquaredExcellent  *float64 `mapstructure:"r_squared_excellent"`
	RSquaredGood       *float64 `mapstructure:"r_squared_good"`
	RSquaredAcceptable *float64 `mapstructure:"r_squared_acceptable"`
	RSquaredModerate   *float64 `mapstructure:"r_squared_moderate"`

	RelRMSEExcellent  *float64 `mapstructure:"rel_rmse_excellent"`
	RelRMSEGood       *float64 `mapstructure:"rel_rmse_good"`
	RelRMSEAcceptable *float64 `mapstructure:"rel_rmse_acceptable"`

	BiasNone  *float64 `mapstructure:"bias_none"`
	BiasMinor *float64 `mapstructure:"bias_minor"`

	Within2SigmaMin *float64 `mapstructure:"within_2sigma_min"`
}

// Config holds the runtime configuration for a fit run.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath string
	Label     string

	Breakpoints       int
	NearInterpPenalty float64
	FixedPenalty      float64

	Precision  int
	Output     schema.OutputFormat
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	PlotFile         string
	ResidualPlotFile string

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Thresholds schema.QualityThresholds
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Breakpoints       int     `mapstructure:"breakpoints"`
	NearInterpPenalty float64 `mapstructure:"near-interp-penalty"`
	FixedPenalty      float64 `mapstructure:"fixed-penalty"`
	Precision         int     `mapstructure:"precision"`
	Output            string  `mapstructure:"output"`
	OutputFile        string  `mapstructure:"output-file"`
	Width             int     `mapstructure:"width"`
	Color             string  `mapstructure:"color"`
	Label             string  `mapstructure:"label"`
	HistoryBackend    string  `mapstructure:"history-backend"`
	HistoryDBConnect  string  `mapstructure:"history-db-connect"`

	// --- Fields from fitCmd.Flags() ---
	PlotFile         string `mapstructure:"plot-file"`
	ResidualPlotFile string `mapstructure:"residual-plot-file"`

	// --- Quality thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processEngineInputs(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	if err := resolveInputPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-numeric-engine fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Label = strings.TrimSpace(input.Label)
	cfg.PlotFile = input.PlotFile
	cfg.ResidualPlotFile = input.ResidualPlotFile

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputFormat(strings.ToLower(input.Output))
	if !schema.ValidOutputFormat(cfg.Output) {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 3. Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if !schema.ValidDatabaseBackend(cfg.HistoryBackend) {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	return nil
}

// processEngineInputs validates the breakpoint count and smoothing penalties.
func processEngineInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Breakpoints < schema.MinBreakpointCount || input.Breakpoints > MaxBreakpointCount {
		return fmt.Errorf("breakpoints must be between %d and %d (received %d)",
			schema.MinBreakpointCount, MaxBreakpointCount, input.Breakpoints)
	}
	cfg.Breakpoints = input.Breakpoints

	if !(input.NearInterpPenalty > 0) || math.IsInf(input.NearInterpPenalty, 1) {
		return fmt.Errorf("near-interp-penalty must be a positive finite number (received %v)", input.NearInterpPenalty)
	}
	cfg.NearInterpPenalty = input.NearInterpPenalty

	if !(input.FixedPenalty > 0) || math.IsInf(input.FixedPenalty, 1) {
		return fmt.Errorf("fixed-penalty must be a positive finite number (received %v)", input.FixedPenalty)
	}
	cfg.FixedPenalty = input.FixedPenalty

	return nil
}

// processThresholds merges config-file threshold overrides onto the default
// rule tables and checks that the resulting tables stay ordered.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	th := schema.DefaultQualityThresholds()
	raw := input.Thresholds

	override := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	override(&th.RSquared[0].Bound, raw.RSquaredExcellent)
	override(&th.RSquared[1].Bound, raw.RSquaredGood)
	override(&th.RSquared[2].Bound, raw.RSquaredAcceptable)
	override(&th.RSquared[3].Bound, raw.RSquaredModerate)

	override(&th.RelRMSEPct[0].Bound, raw.RelRMSEExcellent)
	override(&th.RelRMSEPct[1].Bound, raw.RelRMSEGood)
	override(&th.RelRMSEPct[2].Bound, raw.RelRMSEAcceptable)

	override(&th.BiasRatio[0].Bound, raw.BiasNone)
	override(&th.BiasRatio[1].Bound, raw.BiasMinor)

	override(&th.Within2SigmaMin, raw.Within2SigmaMin)

	// Floor tables must strictly descend, ceiling tables strictly ascend;
	// otherwise some rule can never fire.
	for i := 1; i < len(th.RSquared); i++ {
		if th.RSquared[i].Bound >= th.RSquared[i-1].Bound {
			return fmt.Errorf("r_squared thresholds must strictly decrease (%v then %v)",
				th.RSquared[i-1].Bound, th.RSquared[i].Bound)
		}
	}
	for i := 1; i < len(th.RelRMSEPct); i++ {
		if th.RelRMSEPct[i].Bound <= th.RelRMSEPct[i-1].Bound {
			return fmt.Errorf("rel_rmse thresholds must strictly increase (%v then %v)",
				th.RelRMSEPct[i-1].Bound, th.RelRMSEPct[i].Bound)
		}
	}
	for i := 1; i < len(th.BiasRatio); i++ {
		if th.BiasRatio[i].Bound <= th.BiasRatio[i-1].Bound {
			return fmt.Errorf("bias thresholds must strictly increase (%v then %v)",
				th.BiasRatio[i-1].Bound, th.BiasRatio[i].Bound)
		}
	}
	if th.Within2SigmaMin <= 0 || th.Within2SigmaMin >= 100 {
		return fmt.Errorf("within_2sigma_min must be between 0 and 100 exclusive (received %v)", th.Within2SigmaMin)
	}

	cfg.Thresholds = th
	return nil
}

// resolveInputPath resolves and checks the sample data file. Commands that
// take no data file (history, mcp) leave the positional arg empty.
func resolveInputPath(cfg *Config, input *ConfigRawInput) error {
	if input.InputPathStr == "" {
		return nil
	}

	absPath, err := filepath.Abs(input.InputPathStr)
	if err != nil {
		return err
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("cannot read input file %s: %w", input.InputPathStr, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %s is a directory, expected a data file", input.InputPathStr)
	}

	cfg.InputPath = absPath
	if cfg.Label == "" {
		cfg.Label = filepath.Base(absPath)
	}
	return nil
}
