package round

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/gamemath"
)

// Result records a finalized draw for reports and the audit archive.
type Result struct {
	RunID      string           `json:"runId,omitempty"`
	Number     int              `json:"number"`
	Winning    []int            `json:"winningNumbers"`
	Winners    gamemath.Winners `json:"winners"`
	Pools      gamemath.Vector  `json:"pools"`
	Prizes     gamemath.Vector  `json:"prizes"`
	Revenue    int64            `json:"revenue"`  // revenue bucket drained by the draw
	Budget     int64            `json:"budget"`   // prize share of Revenue
	Rollover   int64            `json:"rollover"` // carried into the next draw's grade 1 pool
	ExecutedAt time.Time        `json:"executedAt"`
}

// Archive receives every finalized draw. The engine never reads it back.
type Archive interface {
	Append(ctx context.Context, r *Result) error
}

// History reads archived draws back for reporting.
type History interface {
	ListRun(ctx context.Context, runID string) ([]*Result, error)
}

// ResultsStore appends finalized draws to data/draw_results.json.
type ResultsStore struct {
	mu      sync.Mutex
	dataDir string
}

func NewResultsStore(dataDir string) *ResultsStore {
	if dataDir == "" {
		dataDir = "data"
	}
	return &ResultsStore{dataDir: dataDir}
}

func (rs *ResultsStore) path() string {
	return filepath.Join(rs.dataDir, "draw_results.json")
}

func (rs *ResultsStore) ensureDir() error {
	return os.MkdirAll(rs.dataDir, 0755)
}

// Append adds a draw result to the JSON file.
func (rs *ResultsStore) Append(_ context.Context, r *Result) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if err := rs.ensureDir(); err != nil {
		return err
	}
	list, err := rs.readLocked()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	list = append(list, r)
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rs.path(), data, 0644)
}

// List returns every archived result in append order.
func (rs *ResultsStore) List() ([]*Result, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	list, err := rs.readLocked()
	if os.IsNotExist(err) {
		return []*Result{}, nil
	}
	return list, err
}

// ListRun returns a run's archived draws in append order.
func (rs *ResultsStore) ListRun(_ context.Context, runID string) ([]*Result, error) {
	list, err := rs.List()
	if err != nil {
		return nil, err
	}
	out := []*Result{}
	for _, r := range list {
		if r.RunID == runID {
			out = append(out, r)
		}
	}
	return out, nil
}

// readLocked loads the file. Caller must hold rs.mu.
func (rs *ResultsStore) readLocked() ([]*Result, error) {
	data, err := os.ReadFile(rs.path())
	if err != nil {
		return nil, err
	}
	var list []*Result
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Result{}
	}
	return list, nil
}
