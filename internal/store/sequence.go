package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequencer hands out one ordering number shared by quiz attempts and LLM
// calls, so both can be read on a single timeline. The row lives in
// global_sequence, created with the rest of the schema.
type sequencer struct {
	mu sync.Mutex
	db *sql.DB
}

// Next returns the current value and advances the counter. The builder
// has no RETURNING support for SQLite updates, so the statement is raw.
func (s *sequencer) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	row := s.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
