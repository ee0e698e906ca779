// Package postgres stores decks as JSONB rows so a classroom can share a
// single catalog.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/quiz"
)

// Loader loads deck JSONB from Postgres.
type Loader struct {
	pool *pgxpool.Pool
}

func NewLoader(pool *pgxpool.Pool) *Loader {
	return &Loader{pool: pool}
}

// Connect opens a pool for dsn.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, &quiz.NetworkError{Op: "connect postgres", Err: err}
	}
	return pool, nil
}

func (l *Loader) LoadDeck(ctx context.Context, id string) (deck.Deck, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM decks WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return deck.Deck{}, &quiz.NotFoundError{Kind: "deck", ID: id}
	}
	if err != nil {
		return deck.Deck{}, &quiz.NetworkError{Op: "load deck", Err: err}
	}
	var d deck.Deck
	if err := json.Unmarshal(raw, &d); err != nil {
		return deck.Deck{}, fmt.Errorf("unmarshal deck %s: %w", id, err)
	}
	return d, nil
}

func (l *Loader) ListDecks(ctx context.Context) ([]deck.Summary, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM decks ORDER BY id`)
	if err != nil {
		return nil, &quiz.NetworkError{Op: "list decks", Err: err}
	}
	defer rows.Close()

	var out []deck.Summary
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		var d deck.Deck
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("unmarshal deck: %w", err)
		}
		out = append(out, d.Summary())
	}
	if err := rows.Err(); err != nil {
		return nil, &quiz.NetworkError{Op: "list decks", Err: err}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveDeck inserts or replaces a validated deck.
func (l *Loader) SaveDeck(ctx context.Context, d deck.Deck) error {
	if err := d.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO decks (id, data, updated_at) VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
		d.ID, string(data))
	if err != nil {
		return &quiz.NetworkError{Op: "save deck", Err: err}
	}
	return nil
}
