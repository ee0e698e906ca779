package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged question generation and coaching calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent calls, newest first",
	RunE:  runLLMList,
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one call",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMView,
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Token usage per purpose and estimated cost per model",
	RunE:  runLLMStats,
}

func init() {
	f := llmListCmd.Flags()
	f.IntP("limit", "n", 20, "Number of calls to show")
	f.StringP("purpose", "p", "", "Only calls for this purpose ("+llm.PurposeQuestionGen+" or "+llm.PurposeCoaching+")")
	f.Duration("since", 0, "Only calls newer than this, e.g. 24h")
	f.Bool("json", false, "Print events as JSON")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

// withEvents opens the local store for the duration of fn.
func withEvents(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	path, err := resolveDBPath(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()
	return fn(st.EventRepo())
}

const stamp = "2006-01-02 15:04:05"

func runLLMList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	purpose, _ := cmd.Flags().GetString("purpose")
	since, _ := cmd.Flags().GetDuration("since")
	asJSON, _ := cmd.Flags().GetBool("json")

	opts := store.QueryOpts{Limit: limit, Purpose: purpose}
	if since > 0 {
		opts.From = time.Now().Add(-since)
	}

	return withEvents(cmd, func(events store.EventRepo) error {
		list, err := events.QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}
		if len(list) == 0 {
			fmt.Println("No LLM calls logged.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tPURPOSE\tPROVIDER\tMODEL\tIN\tOUT\tMS\tOK")
		for _, e := range list {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				e.ID, e.Timestamp.Local().Format(stamp), e.Purpose, e.Provider,
				clip(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
		}
		return tw.Flush()
	})
}

func runLLMView(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid event id %q", args[0])
	}
	return withEvents(cmd, func(events store.EventRepo) error {
		e, err := events.GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(os.Stdout, e)
		return nil
	})
}

func printEvent(w io.Writer, e *store.LLMEvent) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", e.ID)
	fmt.Fprintf(tw, "Time:\t%s\n", e.Timestamp.Local().Format(stamp))
	fmt.Fprintf(tw, "Provider:\t%s (%s)\n", e.Provider, e.Model)
	fmt.Fprintf(tw, "Purpose:\t%s\n", e.Purpose)
	fmt.Fprintf(tw, "Tokens:\t%d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(tw, "Latency:\t%dms\n", e.LatencyMs)
	if e.ErrorMessage != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", e.ErrorMessage)
	}
	tw.Flush()

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		body := part.body
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(w, "\n── %s %s\n%s\n", part.title, strings.Repeat("─", 50-len(part.title)), strings.TrimRight(body, "\n"))
	}
}

func runLLMStats(cmd *cobra.Command, _ []string) error {
	return withEvents(cmd, func(events store.EventRepo) error {
		ctx := cmd.Context()
		byPurpose, err := events.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("usage by purpose: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}
		byModel, err := events.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("usage by model: %w", err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "PURPOSE\tCALLS\tIN\tOUT\tAVG MS\t")
		var calls, in, out int
		for _, u := range byPurpose {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			calls, in, out = calls+u.Calls, in+u.InputTokens, out+u.OutputTokens
		}
		fmt.Fprintf(tw, "total\t%d\t%d\t%d\t\t\n", calls, in, out)
		tw.Flush()

		fmt.Println()
		tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "MODEL\tCALLS\tIN\tOUT\tCOST\t")
		var total float64
		var unpriced []string
		for _, u := range byModel {
			cost := "?"
			if price, ok := llm.PriceFor(u.Model); ok {
				c := price.Cost(u.InputTokens, u.OutputTokens)
				total += c
				cost = usd(c)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t\n", clip(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
		}
		label := "estimated"
		if len(unpriced) > 0 {
			label = "estimated (partial)"
		}
		fmt.Fprintf(tw, "%s\t\t\t\t%s\t\n", label, usd(total))
		tw.Flush()

		if len(unpriced) > 0 {
			fmt.Printf("\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	})
}

func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

func usd(v float64) string {
	if v < 0.01 {
		return fmt.Sprintf("$%.4f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}
