package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyquiz/internal/config"
	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/store"
	"github.com/abhisek/studyquiz/internal/transport/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quizzes over HTTP and websocket",
	Long: `Start the network quiz server.

Attempts are kept in Redis when redis.addr is configured, otherwise in
the local SQLite database. Decks come from the same sources as the
terminal app, including Postgres when postgres.url is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ledger, closeLedger, err := openLedger(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer closeLedger()

	catalog, closeCatalog, err := buildCatalog(ctx, cfg, log.Default())
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
	opts := []ws.Option{
		ws.WithDelays(play.Delays{Correct: correct, Wrong: wrong}),
		ws.WithDefaultMode(mode),
		ws.WithLogger(log.Default()),
		ws.WithMaxUpload(uploadLimits(cfg).MaxBytes),
	}
	if c := buildCoach(provider); c != nil {
		opts = append(opts, ws.WithCoach(c))
	}
	sets := buildSets(cfg, catalog, provider, log.Default())
	srv := ws.NewServer(sets, catalog, ledger, cfg.Server.CookieSecret, opts...)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("http: listening on %s", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("http: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// openLedger returns the Redis ledger when configured, else the SQLite one.
func openLedger(ctx context.Context, cfg config.Config, st *store.Store) (history.Ledger, func(), error) {
	if cfg.Redis.Addr == "" {
		return st.AttemptRepo(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	return history.NewRedisLedger(client, cfg.Redis.Prefix), func() { _ = client.Close() }, nil
}
