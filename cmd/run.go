package cmd

import (
	"fmt"
	"time"

	"github.com/abhisek/studyquiz/internal/app"
	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/screens/env"
	"github.com/abhisek/studyquiz/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	catalog, closeCatalog, err := buildCatalog(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer closeCatalog()

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		warnNoLLM(err)
		provider = nil
	}

	mode, err := cfg.DefaultMode()
	if err != nil {
		return err
	}
	correct, wrong := cfg.QuizDelays()
	e := &env.Env{
		Sets:   buildSets(cfg, catalog, provider, nil),
		Decks:  catalog,
		Ledger: st.AttemptRepo(),
		Coach:  buildCoach(provider),
		Delays: play.Delays{Correct: correct, Wrong: wrong},
		Mode:   mode,
		Count:  cfg.Quiz.QuestionCount,
		Now:    time.Now,
	}
	return app.Run(e)
}
