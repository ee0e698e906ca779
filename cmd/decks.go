package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/deck/postgres"
	"github.com/abhisek/studyquiz/internal/deckpack"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List, inspect, pull, or import question decks",
}

var decksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, closeCatalog, err := buildCatalog(cmd.Context(), cfg, log.Default())
		if err != nil {
			return err
		}
		defer closeCatalog()

		decks, err := catalog.ListDecks(cmd.Context())
		if err != nil {
			return fmt.Errorf("list decks: %w", err)
		}
		if len(decks) == 0 {
			fmt.Println("No decks found.")
			return nil
		}

		fmt.Printf("%-24s  %-32s  %-12s  %-6s  %9s  %8s\n",
			"ID", "Title", "Subject", "Grade", "Questions", "Chapters")
		fmt.Println(strings.Repeat("─", 100))
		for _, d := range decks {
			title := d.Title
			if len(title) > 32 {
				title = title[:29] + "..."
			}
			fmt.Printf("%-24s  %-32s  %-12s  %-6s  %9d  %8d\n",
				d.ID, title, d.Subject, d.Grade, d.Questions, d.Chapters)
		}
		fmt.Printf("\n%d decks\n", len(decks))
		return nil
	},
}

var decksShowCmd = &cobra.Command{
	Use:   "show <deck-id>",
	Short: "Show a deck's chapters and outcomes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, closeCatalog, err := buildCatalog(cmd.Context(), cfg, log.Default())
		if err != nil {
			return err
		}
		defer closeCatalog()

		d, err := catalog.LoadDeck(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", d.Title, d.ID)
		if d.Subject != "" || d.Grade != "" {
			fmt.Printf("Subject: %s   Grade: %s\n", d.Subject, d.Grade)
		}
		if d.Description != "" {
			fmt.Println(d.Description)
		}
		fmt.Printf("Questions: %d\n", len(d.Items))

		for _, ch := range d.Chapters {
			fmt.Println()
			fmt.Printf("[%s] %s\n", ch.ID, ch.Title)
			for _, o := range ch.Outcomes {
				fmt.Printf("  - %s\n", o)
			}
		}
		return nil
	},
}

var decksPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the latest deck pack into the local deck directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		target, _ := cmd.Flags().GetString("version")
		force, _ := cmd.Flags().GetBool("force")

		checker := deckpack.NewChecker(
			deckpack.WithRepo(cfg.Decks.PackRepo),
			deckpack.WithTimeout(2*time.Minute),
		)
		res, err := checker.Pull(cmd.Context(), &deckpack.PullInput{
			Dir:           cfg.Decks.Dir,
			TargetVersion: target,
			Force:         force,
		}, func(p deckpack.Progress) {
			fmt.Println(p.Message)
		})
		if errors.Is(err, deckpack.ErrAlreadyLatest) {
			fmt.Printf("Deck pack %s is already installed.\n", deckpack.InstalledVersion(cfg.Decks.Dir))
			return nil
		}
		if err != nil {
			if os.IsPermission(err) {
				return fmt.Errorf("%w\n\nCheck that %s is writable or set decks.dir", err, cfg.Decks.Dir)
			}
			return err
		}

		fmt.Printf("Installed deck pack %s (%d decks) into %s\n", res.Version, len(res.Decks), cfg.Decks.Dir)
		return nil
	},
}

var decksImportCmd = &cobra.Command{
	Use:   "import <file.yaml>...",
	Short: "Validate deck files and upsert them into Postgres",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Postgres.URL == "" {
			return fmt.Errorf("postgres url not configured (set postgres.url or STUDYQUIZ_POSTGRES_URL)")
		}

		var decks []deck.Deck
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			d, err := deck.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			decks = append(decks, d)
		}

		pool, err := postgres.Connect(cmd.Context(), cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		loader := postgres.NewLoader(pool)
		for _, d := range decks {
			if err := loader.SaveDeck(cmd.Context(), d); err != nil {
				return fmt.Errorf("save deck %s: %w", d.ID, err)
			}
			fmt.Printf("imported %s (%d questions)\n", d.ID, len(d.Items))
		}
		return nil
	},
}

func init() {
	decksPullCmd.Flags().String("version", "", "Install a specific release tag instead of the latest")
	decksPullCmd.Flags().Bool("force", false, "Reinstall even when the installed pack is current")

	decksCmd.AddCommand(decksListCmd)
	decksCmd.AddCommand(decksShowCmd)
	decksCmd.AddCommand(decksPullCmd)
	decksCmd.AddCommand(decksImportCmd)
}
