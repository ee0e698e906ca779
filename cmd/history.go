package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [quiz-id]",
	Short: "Show recorded attempts and how scores changed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ledger := s.AttemptRepo()
		if len(args) == 1 {
			return printAttempts(cmd, ledger, args[0])
		}
		return printQuizzes(cmd, ledger)
	},
}

func printQuizzes(cmd *cobra.Command, ledger history.Ledger) error {
	ctx := cmd.Context()
	ids, err := ledger.QuizIDs(ctx)
	if err != nil {
		return fmt.Errorf("list quizzes: %w", err)
	}
	if len(ids) == 0 {
		fmt.Println("No attempts recorded yet.")
		return nil
	}

	fmt.Printf("%-36s  %8s  %6s  %7s  %s\n", "Quiz", "Attempts", "Last", "Change", "Completed")
	fmt.Println(strings.Repeat("─", 84))
	for _, id := range ids {
		c, err := history.Compare(ctx, ledger, id)
		if err != nil {
			return fmt.Errorf("load %s: %w", id, err)
		}
		if c.Latest == nil {
			continue
		}
		change := "-"
		if c.HasDelta {
			change = history.FormatDelta(c.Delta)
		}
		fmt.Printf("%-36s  %8d  %5d%%  %7s  %s\n",
			id, c.Latest.AttemptNumber, c.Latest.Percentage, change,
			c.Latest.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func printAttempts(cmd *cobra.Command, ledger history.Ledger, quizID string) error {
	attempts, err := ledger.Attempts(cmd.Context(), quizID)
	if err != nil {
		return fmt.Errorf("load attempts: %w", err)
	}
	if len(attempts) == 0 {
		return fmt.Errorf("no attempts recorded for %q", quizID)
	}

	fmt.Printf("%3s  %-8s  %7s  %6s  %7s  %8s  %s\n", "#", "Mode", "Score", "Pct", "Change", "Avg sec", "Completed")
	fmt.Println(strings.Repeat("─", 72))
	for i, a := range attempts {
		change := "-"
		if i > 0 {
			change = history.FormatDelta(a.Percentage - attempts[i-1].Percentage)
		}
		fmt.Printf("%3d  %-8s  %3d/%-3d  %5d%%  %7s  %8.1f  %s\n",
			a.AttemptNumber, a.Mode, a.Score, a.TotalQuestions, a.Percentage, change,
			a.AverageResponse(), a.CompletedAt.Local().Format("2006-01-02 15:04"))
	}

	last := attempts[len(attempts)-1]
	if len(last.WrongAnswers) > 0 {
		fmt.Println()
		fmt.Println("Missed on the last attempt:")
		for _, w := range last.WrongAnswers {
			given := w.UserAnswer
			if w.TimedOut() {
				given = "(time ran out)"
			}
			fmt.Printf("  - %s\n    answered %s, correct %s\n", w.QuestionText, given, w.CorrectAnswer)
		}
	}
	return nil
}
