// Package history lists past attempts grouped by question set.
package history

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/ui/layout"
	"github.com/abhisek/studyquiz/internal/ui/theme"
)

// set is every attempt at one question set, oldest first.
type set struct {
	id       string
	attempts []history.Attempt
}

func (s set) last() history.Attempt { return s.attempts[len(s.attempts)-1] }

type loadedMsg struct {
	sets []set
	err  error
}

var (
	rowStyle    = lipgloss.NewStyle().Foreground(theme.Text)
	cursorStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	warnStyle   = lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(theme.Error)
)

type HistoryScreen struct {
	ledger   history.Ledger
	sets     []set
	cursor   int
	open     map[string]bool
	loaded   bool
	err      error
	clearing bool // x pressed once; a second x deletes the set under the cursor
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(ledger history.Ledger) *HistoryScreen {
	return &HistoryScreen{ledger: ledger, open: make(map[string]bool)}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return loadSets(s.ledger)
}

// loadSets reads the ledger, most recently played set first.
func loadSets(ledger history.Ledger) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		ids, err := ledger.QuizIDs(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		var sets []set
		for _, id := range ids {
			attempts, err := ledger.Attempts(ctx, id)
			if err != nil {
				return loadedMsg{err: fmt.Errorf("attempts of %s: %w", id, err)}
			}
			if len(attempts) > 0 {
				sets = append(sets, set{id: id, attempts: attempts})
			}
		}
		slices.SortFunc(sets, func(a, b set) int {
			return b.last().CompletedAt.Compare(a.last().CompletedAt)
		})
		return loadedMsg{sets: sets}
	}
}

func clearSet(ledger history.Ledger, id string) tea.Cmd {
	return func() tea.Msg {
		if err := ledger.Clear(context.Background(), id); err != nil {
			return loadedMsg{err: fmt.Errorf("clear %s: %w", id, err)}
		}
		return loadSets(ledger)()
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.clearing {
		return []layout.KeyHint{{Key: "x", Description: "Confirm delete"}, {Key: "any", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Attempts"},
		{Key: "x", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.err = msg.err
		if msg.err == nil {
			s.sets = msg.sets
			s.cursor = min(s.cursor, max(len(s.sets)-1, 0))
		}
	case tea.KeyPressMsg:
		return s, s.key(msg.String())
	}
	return s, nil
}

func (s *HistoryScreen) key(k string) tea.Cmd {
	armed := s.clearing
	s.clearing = false
	if len(s.sets) == 0 {
		return nil
	}
	switch k {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, len(s.sets)-1)
	case "enter", "space":
		id := s.sets[s.cursor].id
		s.open[id] = !s.open[id]
	case "x":
		if armed {
			return clearSet(s.ledger, s.sets[s.cursor].id)
		}
		s.clearing = true
	}
	return nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(line string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, line) }
	switch {
	case s.err != nil:
		return "\n\n" + center(errStyle.Render("Error: "+s.err.Error()))
	case !s.loaded:
		return "\n\n" + center(detailStyle.Render("Loading history..."))
	case len(s.sets) == 0:
		return "\n\n" + center(detailStyle.Italic(true).Render("No quizzes yet. Pick a deck to get started!"))
	}

	lines := []string{""}
	for i, st := range s.sets {
		style, mark := rowStyle, "  "
		if i == s.cursor {
			style, mark = cursorStyle, "> "
		}
		lines = append(lines, center(style.Render(mark+summary(st))))
		if s.open[st.id] {
			for _, a := range slices.Backward(st.attempts) {
				lines = append(lines, center(detailStyle.Render(detail(a))))
			}
		}
	}
	if s.clearing {
		lines = append(lines, "", center(warnStyle.Render(fmt.Sprintf("Delete every attempt at %s? Press x again.", s.sets[s.cursor].id))))
	}
	return strings.Join(lines, "\n")
}

func summary(st set) string {
	n := len(st.attempts)
	noun := "attempts"
	if n == 1 {
		noun = "attempt"
	}
	line := fmt.Sprintf("%-28s  %d %s  last %d%%", st.id, n, noun, st.last().Percentage)
	if delta, ok := history.Improvement(st.attempts); ok {
		line += "  " + history.FormatDelta(delta)
	}
	return line
}

func detail(a history.Attempt) string {
	return fmt.Sprintf("    #%d  %s  %-8s  %d/%d  %d%%  %d wrong",
		a.AttemptNumber,
		a.CompletedAt.Local().Format("Jan 02 15:04"),
		a.Mode.Label(),
		a.Score, a.TotalQuestions, a.Percentage,
		len(a.WrongAnswers))
}
