// Package store keeps quiz attempts and LLM call logs in a local SQLite
// file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is an open database. The repositories it hands out share its
// connection pool and sequence.
type Store struct {
	db  *sql.DB
	seq *sequencer
}

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
	"PRAGMA synchronous = NORMAL",
}

// Open connects to the SQLite database at dsn and creates any missing
// tables. dsn may be ":memory:" in tests.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := prepare(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, seq: &sequencer{db: db}}, nil
}

func prepare(ctx context.Context, db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return migrate(ctx, db)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

func (s *Store) AttemptRepo() *AttemptRepo {
	return &AttemptRepo{db: s.db, seq: s.seq}
}

// DefaultDBPath is $STUDYQUIZ_DB when set, else studyquiz.db under the
// XDG data directory. The parent directory is created.
func DefaultDBPath() (string, error) {
	path := os.Getenv("STUDYQUIZ_DB")
	if path == "" {
		data := os.Getenv("XDG_DATA_HOME")
		if data == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			data = filepath.Join(home, ".local", "share")
		}
		path = filepath.Join(data, "studyquiz", "studyquiz.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}
