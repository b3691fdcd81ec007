package round

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const createDrawsTable = `
CREATE TABLE IF NOT EXISTS lotto_draws (
  run_id          TEXT        NOT NULL,
  draw_number     INTEGER     NOT NULL,
  winning_numbers TEXT        NOT NULL,
  winners         TEXT        NOT NULL,
  pools           TEXT        NOT NULL,
  prizes          TEXT        NOT NULL,
  revenue         BIGINT      NOT NULL,
  budget          BIGINT      NOT NULL,
  rollover        BIGINT      NOT NULL,
  executed_at     TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (run_id, draw_number)
)`

const upsertDraw = `
INSERT INTO lotto_draws (run_id, draw_number, winning_numbers, winners, pools, prizes, revenue, budget, rollover, executed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (run_id, draw_number) DO UPDATE SET
  winning_numbers = EXCLUDED.winning_numbers,
  winners = EXCLUDED.winners,
  pools = EXCLUDED.pools,
  prizes = EXCLUDED.prizes,
  revenue = EXCLUDED.revenue,
  budget = EXCLUDED.budget,
  rollover = EXCLUDED.rollover,
  executed_at = EXCLUDED.executed_at`

const selectRun = `
SELECT draw_number, winning_numbers, winners, pools, prizes, revenue, budget, rollover, executed_at
FROM lotto_draws WHERE run_id = $1 ORDER BY draw_number`

// SQLStore archives draws in the lotto_draws table. Vectors are stored as JSON text.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// EnsureSchema creates the lotto_draws table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createDrawsTable); err != nil {
		return fmt.Errorf("create lotto_draws: %w", err)
	}
	return nil
}

// Append inserts or replaces a run's draw.
func (s *SQLStore) Append(ctx context.Context, r *Result) error {
	cols, err := encodeVectors(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, upsertDraw,
		r.RunID, r.Number, cols[0], cols[1], cols[2], cols[3],
		r.Revenue, r.Budget, r.Rollover, r.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert draw %d: %w", r.Number, err)
	}
	return nil
}

// ListRun returns a run's draws ordered by draw number.
func (s *SQLStore) ListRun(ctx context.Context, runID string) ([]*Result, error) {
	rows, err := s.db.QueryContext(ctx, selectRun, runID)
	if err != nil {
		return nil, fmt.Errorf("select run %s: %w", runID, err)
	}
	defer rows.Close()

	out := []*Result{}
	for rows.Next() {
		r := &Result{RunID: runID}
		var winning, winners, pools, prizes string
		if err := rows.Scan(&r.Number, &winning, &winners, &pools, &prizes,
			&r.Revenue, &r.Budget, &r.Rollover, &r.ExecutedAt); err != nil {
			return nil, err
		}
		for _, f := range []struct {
			src string
			dst any
		}{
			{winning, &r.Winning},
			{winners, &r.Winners},
			{pools, &r.Pools},
			{prizes, &r.Prizes},
		} {
			if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
				return nil, fmt.Errorf("decode draw %d: %w", r.Number, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func encodeVectors(r *Result) ([4]string, error) {
	var out [4]string
	for i, v := range []any{r.Winning, r.Winners, r.Pools, r.Prizes} {
		b, err := json.Marshal(v)
		if err != nil {
			return out, fmt.Errorf("encode draw %d: %w", r.Number, err)
		}
		out[i] = string(b)
	}
	return out, nil
}
