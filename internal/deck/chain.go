package deck

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"

	"github.com/abhisek/studyquiz/internal/quiz"
)

// Chain tries catalogs in order. The first catalog that knows an id wins,
// so pulled deck packs can shadow embedded decks.
func Chain(catalogs ...Catalog) Catalog {
	return ChainWithLogger(nil, catalogs...)
}

// ChainWithLogger is Chain with skipped catalogs reported to logger. A
// catalog that fails with a NetworkError is skipped, so an unreachable
// database still leaves the embedded decks playable.
func ChainWithLogger(logger *log.Logger, catalogs ...Catalog) Catalog {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &chain{catalogs: catalogs, logger: logger}
}

type chain struct {
	catalogs []Catalog
	logger   *log.Logger
}

// skippable reports whether the chain may move past err. Cancellation
// stops the walk even when wrapped in a NetworkError.
func (c *chain) skippable(ctx context.Context, op string, i int, err error) bool {
	var ne *quiz.NetworkError
	if !errors.As(err, &ne) || ctx.Err() != nil {
		return false
	}
	c.logger.Printf("deck: %s: catalog %d unavailable, trying next: %v", op, i, err)
	return true
}

func (c *chain) LoadDeck(ctx context.Context, id string) (Deck, error) {
	var unreachable error
	for i, cat := range c.catalogs {
		d, err := cat.LoadDeck(ctx, id)
		switch {
		case err == nil:
			return d, nil
		case quiz.IsNotFound(err):
		case c.skippable(ctx, "load "+id, i, err):
			if unreachable == nil {
				unreachable = err
			}
		default:
			return Deck{}, err
		}
	}
	// Missing from every reachable catalog is reported as the outage.
	if unreachable != nil {
		return Deck{}, unreachable
	}
	return Deck{}, notFound(id)
}

func (c *chain) ListDecks(ctx context.Context) ([]Summary, error) {
	seen := make(map[string]bool)
	var out []Summary
	var unreachable error
	reached := 0
	for i, cat := range c.catalogs {
		list, err := cat.ListDecks(ctx)
		if err != nil {
			if !c.skippable(ctx, "list", i, err) {
				return nil, err
			}
			if unreachable == nil {
				unreachable = err
			}
			continue
		}
		reached++
		for _, s := range list {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			out = append(out, s)
		}
	}
	if reached == 0 && unreachable != nil {
		return nil, unreachable
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
