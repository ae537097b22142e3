package store

import (
	"context"
	"fmt"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// The counter is a single-row table outside the ent-derived schema; it is
// a counter, not an entity.
const (
	createSequenceTable = `CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`
	seedSequence = `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`
	nextSequence = `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
)

// sequenceCounter numbers audit rows. The mutex serializes callers in this
// process and RETURNING makes each increment atomic in SQLite.
type sequenceCounter struct {
	mu  sync.Mutex
	drv dialect.Driver
}

func newSequenceCounter(ctx context.Context, drv dialect.Driver) (*sequenceCounter, error) {
	for _, stmt := range []string{createSequenceTable, seedSequence} {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return nil, fmt.Errorf("init sequence: %w", err)
		}
	}
	return &sequenceCounter{drv: drv}, nil
}

// Next returns the current value and advances the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var rows entsql.Rows
	if err := sc.drv.Query(ctx, nextSequence, []any{}, &rows); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	seq, err := entsql.ScanInt64(&rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
