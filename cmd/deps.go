package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/abhisek/studyquiz/internal/coach"
	"github.com/abhisek/studyquiz/internal/config"
	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/deck/postgres"
	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/questiongen"
	"github.com/abhisek/studyquiz/internal/questionset"
	"github.com/abhisek/studyquiz/internal/upload"
)

// buildCatalog chains the pulled deck directory, Postgres (when
// configured) and the embedded starter decks behind a TTL cache. The
// returned func releases the Postgres pool. logger may be nil.
func buildCatalog(ctx context.Context, cfg config.Config, logger *log.Logger) (*deck.Repository, func(), error) {
	local, err := deck.LoadDir(cfg.Decks.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load deck dir: %w", err)
	}
	embedded, err := deck.Embedded()
	if err != nil {
		return nil, nil, fmt.Errorf("load embedded decks: %w", err)
	}

	catalogs := []deck.Catalog{local}
	cleanup := func() {}
	if cfg.Postgres.URL != "" {
		pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		catalogs = append(catalogs, postgres.NewLoader(pool))
		cleanup = pool.Close
	}
	catalogs = append(catalogs, embedded)

	ttl := config.TTLDuration(cfg.Decks.CacheTTL, deck.DefaultTTL)
	return deck.NewRepository(deck.ChainWithLogger(logger, catalogs...), ttl), cleanup, nil
}

func uploadLimits(cfg config.Config) upload.Limits {
	lim := upload.DefaultLimits()
	if cfg.Upload.MaxBytes > 0 {
		lim.MaxBytes = cfg.Upload.MaxBytes
	}
	return lim
}

// buildSets wires the question set provider. provider may be nil, in
// which case only decks are served.
func buildSets(cfg config.Config, decks deck.Loader, provider llm.Provider, logger *log.Logger) *questionset.Provider {
	opts := []questionset.Option{questionset.WithLimits(uploadLimits(cfg))}
	if logger != nil {
		opts = append(opts, questionset.WithLogger(logger))
	}
	if provider != nil {
		opts = append(opts, questionset.WithGenerator(questiongen.New(provider, questiongen.DefaultConfig())))
	}
	return questionset.NewProvider(decks, opts...)
}

func buildCoach(provider llm.Provider) *coach.Service {
	if provider == nil {
		return nil
	}
	return coach.NewService(provider, coach.DefaultConfig())
}

func warnNoLLM(err error) {
	fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
	fmt.Fprintln(os.Stderr, "Generated quizzes and coaching will be unavailable.")
}
