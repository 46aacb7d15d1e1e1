package fitstore

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/karsk/splinefit/core"
	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/schema"
)

// RunStoreManager guards the global RunStore instance.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.RunStore
}

// GetHistoryStore returns the history RunStore.
func (mgr *RunStoreManager) GetHistoryStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// Global Manager instance for command logic.
var (
	Manager   = &RunStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitHistory initializes the global history manager.
func InitHistory(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewRunStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize run history: %w", err)
			return
		}
		Manager.history = store
	})

	return initErr
}

// CloseHistory should be called on application shutdown.
func CloseHistory() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearHistory clears persisted history for the specified backend.
// For SQLite it deletes the database file; for SQL backends it truncates
// the history tables through an ad hoc store.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		store, err := NewRunStore(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.Clear()

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// BuildRunRecord assembles the persisted summary of one pipeline run.
func BuildRunRecord(cfg *contract.Config, res *core.Result, createdAt time.Time) schema.RunRecord {
	return schema.RunRecord{
		Label:           cfg.Label,
		CreatedAt:       createdAt,
		InputPath:       cfg.InputPath,
		SampleCount:     res.KPIs.SampleCount,
		BreakpointCount: len(res.Breakpoints),
		Strategy:        res.Fit.Strategy,
		SquaredError:    res.KPIs.SquaredError,
		RMSE:            res.KPIs.RMSE,
		RSquared:        res.KPIs.RSquared,
		RelRMSEPct:      res.KPIs.RelRMSEPct,
		BiasRatio:       res.KPIs.BiasRatio,
		Within2SigmaPct: res.KPIs.Within2SigmaPct,
		Quality:         res.Quality,
	}
}
