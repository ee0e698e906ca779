package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/quiz"
)

var attemptColumns = []string{
	"quiz_id", "attempt_number", "mode", "score", "total_questions",
	"percentage", "response_times", "wrong_answers", "completed_at",
}

// AttemptRepo is a durable history.Ledger backed by the quiz_attempts table.
type AttemptRepo struct {
	mu  sync.Mutex
	db  *sql.DB
	seq *sequencer
}

var _ history.Ledger = (*AttemptRepo)(nil)

func (r *AttemptRepo) Append(ctx context.Context, a history.Attempt) (history.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return history.Attempt{}, fmt.Errorf("next sequence: %w", err)
	}
	times, err := json.Marshal(nonNil(a.ResponseTimes))
	if err != nil {
		return history.Attempt{}, fmt.Errorf("marshal response times: %w", err)
	}
	wrong, err := json.Marshal(nonNil(a.WrongAnswers))
	if err != nil {
		return history.Attempt{}, fmt.Errorf("marshal wrong answers: %w", err)
	}
	if a.CompletedAt.IsZero() {
		a.CompletedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return history.Attempt{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	countQuery, countArgs := entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*")).
		From(entsql.Table(tableAttempts)).
		Where(entsql.EQ("quiz_id", a.QuizID)).
		Query()
	var prior int
	if err := tx.QueryRowContext(ctx, countQuery, countArgs...).Scan(&prior); err != nil {
		return history.Attempt{}, fmt.Errorf("count attempts: %w", err)
	}
	a.AttemptNumber = prior + 1

	insert, args := entsql.Dialect(dialect.SQLite).
		Insert(tableAttempts).
		Columns(append([]string{"sequence"}, attemptColumns...)...).
		Values(
			seqNum, a.QuizID, a.AttemptNumber, string(a.Mode), a.Score, a.TotalQuestions,
			a.Percentage, string(times), string(wrong), a.CompletedAt.UnixMilli(),
		).
		Query()
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return history.Attempt{}, fmt.Errorf("insert attempt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return history.Attempt{}, fmt.Errorf("commit: %w", err)
	}
	a.CompletedAt = time.UnixMilli(a.CompletedAt.UnixMilli())
	return a, nil
}

func (r *AttemptRepo) Attempts(ctx context.Context, quizID string) ([]history.Attempt, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(attemptColumns...).
		From(entsql.Table(tableAttempts)).
		Where(entsql.EQ("quiz_id", quizID)).
		OrderBy("attempt_number").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []history.Attempt
	for rows.Next() {
		var (
			a            history.Attempt
			mode         string
			times, wrong string
			completedAt  int64
		)
		err := rows.Scan(&a.QuizID, &a.AttemptNumber, &mode, &a.Score, &a.TotalQuestions,
			&a.Percentage, &times, &wrong, &completedAt)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Mode = quiz.Mode(mode)
		a.CompletedAt = time.UnixMilli(completedAt)
		if err := json.Unmarshal([]byte(times), &a.ResponseTimes); err != nil {
			return nil, fmt.Errorf("decode response times: %w", err)
		}
		if err := json.Unmarshal([]byte(wrong), &a.WrongAnswers); err != nil {
			return nil, fmt.Errorf("decode wrong answers: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AttemptRepo) QuizIDs(ctx context.Context) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("quiz_id").
		Distinct().
		From(entsql.Table(tableAttempts)).
		OrderBy("quiz_id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan quiz id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *AttemptRepo) Clear(ctx context.Context, quizID string) error {
	del := entsql.Dialect(dialect.SQLite).Delete(tableAttempts)
	if quizID != "" {
		del.Where(entsql.EQ("quiz_id", quizID))
	}
	query, args := del.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
