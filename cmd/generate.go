package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/questionset"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/upload"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a question set from a file or learning outcomes (no database)",
	Long: `Generate a question set and print it.

This is a stateless tool: nothing is recorded and LLM calls are not
logged. Useful for checking question quality before a class.`,
	Example: `  studyquiz generate --file notes.pdf --count 8
  studyquiz generate --deck biology-cells --chapter organelles
  studyquiz generate --outcome "Describe photosynthesis" --outcome "Name the parts of a leaf" --json`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("file", "", "PDF, text, or markdown file to quiz on")
	generateCmd.Flags().String("deck", "", "Deck whose chapter outcomes to quiz on")
	generateCmd.Flags().String("chapter", "", "Chapter id within --deck")
	generateCmd.Flags().StringArray("outcome", nil, "Learning outcome (repeatable)")
	generateCmd.Flags().Int("count", 0, "Number of questions (default from config)")
	generateCmd.Flags().Bool("json", false, "Print the set as JSON")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	file, _ := cmd.Flags().GetString("file")
	deckID, _ := cmd.Flags().GetString("deck")
	chapter, _ := cmd.Flags().GetString("chapter")
	outcomes, _ := cmd.Flags().GetStringArray("outcome")
	count, _ := cmd.Flags().GetInt("count")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if count <= 0 {
		count = cfg.Quiz.QuestionCount
	}

	var src questionset.Source
	switch {
	case file != "" && (deckID != "" || len(outcomes) > 0):
		return fmt.Errorf("use --file or --deck/--outcome, not both")
	case file != "":
		up, err := upload.FromFile(file)
		if err != nil {
			return err
		}
		src = questionset.DocumentSource{Upload: up, Count: count}
	case deckID != "" || len(outcomes) > 0:
		if deckID != "" && chapter == "" && len(outcomes) == 0 {
			return fmt.Errorf("--deck needs --chapter")
		}
		src = questionset.OutcomesSource{DeckID: deckID, ChapterID: chapter, Outcomes: outcomes, Count: count}
	default:
		return fmt.Errorf("one of --file, --deck/--chapter, or --outcome is required")
	}

	provider, err := llm.NewProviderFromEnv(ctx, nil)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	catalog, closeCatalog, err := buildCatalog(ctx, cfg, log.Default())
	if err != nil {
		return err
	}
	defer closeCatalog()

	fmt.Fprintln(os.Stderr, "Generating questions...")
	set, err := buildSets(cfg, catalog, provider, nil).Load(ctx, src)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}
	printSet(set)
	return nil
}

func printSet(set quiz.Set) {
	fmt.Printf("%s (%s)\n", set.Title, set.ID)
	fmt.Println(strings.Repeat("─", 60))
	for i, q := range set.Questions {
		fmt.Printf("\nQ%d. %s\n", i+1, q.Prompt)
		if q.Category != "" || q.Difficulty != "" {
			fmt.Printf("    [%s, %s]\n", q.Category, q.Difficulty)
		}
		for j, opt := range q.Options {
			mark := " "
			if opt == q.CorrectAnswer {
				mark = "✓"
			}
			fmt.Printf("  %s %c) %s\n", mark, 'A'+j, opt)
		}
	}
	fmt.Printf("\n%d questions\n", len(set.Questions))
}
