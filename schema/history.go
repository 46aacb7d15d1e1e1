package schema

import "time"

// RunRecord is one persisted pipeline run in the history store.
type RunRecord struct {
	ID              int64         `json:"id"`
	Label           string        `json:"label"`
	CreatedAt       time.Time     `json:"created_at"`
	InputPath       string        `json:"input_path"`
	SampleCount     int           `json:"sample_count"`
	BreakpointCount int           `json:"breakpoint_count"`
	Strategy        StrategyLabel `json:"strategy"`

	SquaredError    float64 `json:"squared_error"`
	RMSE            float64 `json:"rmse"`
	RSquared        Metric  `json:"r_squared"`
	RelRMSEPct      Metric  `json:"rel_rmse_pct"`
	BiasRatio       Metric  `json:"bias_ratio"`
	Within2SigmaPct Metric  `json:"within_2sigma_pct"`

	Quality QualityReport `json:"quality"`
}

// HistoryStatus summarizes the state of a history store.
type HistoryStatus struct {
	Backend    DatabaseBackend `json:"backend"`
	Location   string          `json:"location"`
	RunCount   int64           `json:"run_count"`
	SampleRows int64           `json:"sample_rows"`
	LastRunAt  time.Time       `json:"last_run_at"`
}
