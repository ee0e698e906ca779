package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/studyquiz/internal/config"
	"github.com/abhisek/studyquiz/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studyquiz",
	Short: "Multiple-choice quizzes from decks, notes, or learning outcomes",
	Long: `StudyQuiz runs multiple-choice quizzes in the terminal or over a websocket.

Questions come from curated decks, from an uploaded PDF or text file, or
from a list of learning outcomes. Every finished attempt is recorded so
a retake shows how much the score moved.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/studyquiz/config.yaml)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(decksCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the --config file, or the default path when unset.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveDBPath picks --db, then store.db_path from the config, then the
// default location, and makes sure the parent directory exists.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return "", err
		}
		path = cfg.Store.DBPath
	}
	if path == "" {
		return store.DefaultDBPath()
	}
	return path, os.MkdirAll(filepath.Dir(path), 0o755)
}
