// Package decks lists the static decks.
package decks

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/questionset"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/screens/env"
	"github.com/abhisek/studyquiz/internal/screens/modes"
	"github.com/abhisek/studyquiz/internal/screens/source"
	"github.com/abhisek/studyquiz/internal/ui/layout"
	"github.com/abhisek/studyquiz/internal/ui/theme"
)

type decksLoadedMsg struct {
	Decks []deck.Summary
	Err   error
}

// DecksScreen lets the player pick a deck to play, or generate fresh
// questions from one of its chapters.
type DecksScreen struct {
	env      *env.Env
	decks    []deck.Summary
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*DecksScreen)(nil)
var _ screen.KeyHintProvider = (*DecksScreen)(nil)

// New creates a DecksScreen.
func New(e *env.Env) *DecksScreen {
	return &DecksScreen{env: e}
}

func (s *DecksScreen) Init() tea.Cmd {
	catalog := s.env.Decks
	return func() tea.Msg {
		list, err := catalog.ListDecks(context.Background())
		return decksLoadedMsg{Decks: list, Err: err}
	}
}

func (s *DecksScreen) Title() string {
	return "Decks"
}

func (s *DecksScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
	}
	if s.canGenerate() {
		hints = append(hints, layout.KeyHint{Key: "G", Description: "Generate from chapters"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *DecksScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case decksLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.decks = msg.Decks
		return s, nil

	case tea.KeyMsg:
		if len(s.decks) == 0 {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.decks)-1 {
				s.selected++
			}
		case "enter":
			return s, s.play(s.decks[s.selected])
		case "g":
			if s.canGenerate() {
				next := source.NewForDeck(s.env, s.decks[s.selected].ID)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *DecksScreen) play(d deck.Summary) tea.Cmd {
	sets := s.env.Sets
	load := func(ctx context.Context) (quiz.Set, error) {
		return sets.Load(ctx, questionset.DeckSource{DeckID: d.ID})
	}
	next := modes.New(s.env, d.Title, load)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *DecksScreen) canGenerate() bool {
	return s.env.Sets != nil && s.env.Sets.CanGenerate()
}

func (s *DecksScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading decks...")
	case len(s.decks) == 0:
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No decks installed. Try `studyquiz decks pull`.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, d := range s.decks {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		meta := fmt.Sprintf("%d questions", d.Questions)
		if d.Subject != "" {
			meta = d.Subject + " · " + meta
		}
		line := fmt.Sprintf("%s%-32s %s", prefix, d.Title, meta)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
