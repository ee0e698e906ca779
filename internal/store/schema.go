package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Table and column names shared by the repositories.
const (
	tableLLMEvents = "llm_request_events"
	tableAttempts  = "quiz_attempts"
)

// schema is applied on every Open. Statements must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		purpose TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success BOOLEAN NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_sequence ON llm_request_events (sequence)`,
	`CREATE TABLE IF NOT EXISTS quiz_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		quiz_id TEXT NOT NULL,
		attempt_number INTEGER NOT NULL,
		mode TEXT NOT NULL DEFAULT 'normal',
		score INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		percentage INTEGER NOT NULL,
		response_times TEXT NOT NULL DEFAULT '[]',
		wrong_answers TEXT NOT NULL DEFAULT '[]',
		completed_at INTEGER NOT NULL,
		UNIQUE (quiz_id, attempt_number)
	)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`,
	`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
}

// migrate creates missing tables. The ent SQL builder has no DDL support
// for SQLite, so the statements are raw.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
