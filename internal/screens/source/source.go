// Package source collects what to generate a quiz from: a file, a list
// of learning outcomes or a deck chapter.
package source

import (
	"context"
	"fmt"
	"path/filepath"
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
	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/layout"
	"github.com/abhisek/studyquiz/internal/ui/theme"
	"github.com/abhisek/studyquiz/internal/upload"
)

// Kind selects what the screen asks for.
type Kind int

const (
	KindFile Kind = iota
	KindOutcomes
	KindChapter
)

type deckLoadedMsg struct {
	Deck deck.Deck
	Err  error
}

// SourceScreen implements screen.Screen.
type SourceScreen struct {
	env   *env.Env
	kind  Kind
	input components.Prompt

	deckID   string
	deck     *deck.Deck
	selected int

	errMsg string
}

var _ screen.Screen = (*SourceScreen)(nil)
var _ screen.KeyHintProvider = (*SourceScreen)(nil)

// New creates a SourceScreen asking for a file path or outcomes.
func New(e *env.Env, kind Kind) *SourceScreen {
	placeholder := "path/to/notes.pdf"
	if kind == KindOutcomes {
		placeholder = "Describe photosynthesis; Label the parts of a leaf"
	}
	return &SourceScreen{
		env:   e,
		kind:  kind,
		input: components.NewPrompt(placeholder, 400),
	}
}

// NewForDeck creates a SourceScreen listing the chapters of deckID.
func NewForDeck(e *env.Env, deckID string) *SourceScreen {
	return &SourceScreen{env: e, kind: KindChapter, deckID: deckID}
}

func (s *SourceScreen) Init() tea.Cmd {
	if s.kind != KindChapter {
		return s.input.Init()
	}
	catalog, id := s.env.Decks, s.deckID
	return func() tea.Msg {
		d, err := catalog.LoadDeck(context.Background(), id)
		return deckLoadedMsg{Deck: d, Err: err}
	}
}

func (s *SourceScreen) Title() string {
	switch s.kind {
	case KindOutcomes:
		return "Quiz from Outcomes"
	case KindChapter:
		return "Pick a Chapter"
	default:
		return "Quiz from a File"
	}
}

func (s *SourceScreen) KeyHints() []layout.KeyHint {
	if s.kind == KindChapter {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Generate"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SourceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case deckLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		d := msg.Deck
		s.deck = &d
		if len(d.Chapters) == 0 {
			s.errMsg = fmt.Sprintf("deck %q has no chapters to generate from", d.Title)
		}
		return s, nil

	case tea.KeyMsg:
		if s.kind == KindChapter {
			return s.handleChapterKey(msg)
		}
		if msg.String() == "enter" {
			return s, s.submit()
		}
	}

	if s.kind != KindChapter {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SourceScreen) handleChapterKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.deck == nil || len(s.deck.Chapters) == 0 {
		return s, nil
	}
	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.deck.Chapters)-1 {
			s.selected++
		}
	case "enter":
		ch := s.deck.Chapters[s.selected]
		title := fmt.Sprintf("%s: %s", s.deck.Title, ch.Title)
		return s, s.next(title, questionset.OutcomesSource{
			DeckID:    s.deck.ID,
			ChapterID: ch.ID,
			Count:     s.env.Count,
		})
	}
	return s, nil
}

// submit validates the typed input and moves on to mode selection.
func (s *SourceScreen) submit() tea.Cmd {
	value := s.input.Value()
	if value == "" {
		return nil
	}
	s.errMsg = ""

	switch s.kind {
	case KindOutcomes:
		outcomes := splitOutcomes(value)
		if len(outcomes) == 0 {
			s.errMsg = "enter at least one outcome"
			return nil
		}
		return s.next("Custom outcomes", questionset.OutcomesSource{Outcomes: outcomes, Count: s.env.Count})
	default:
		src, err := upload.FromFile(value)
		if err != nil {
			s.errMsg = err.Error()
			return nil
		}
		return s.next(filepath.Base(value), questionset.DocumentSource{Upload: src, Count: s.env.Count})
	}
}

// next replaces this screen with the mode picker, which runs generation.
func (s *SourceScreen) next(title string, src questionset.Source) tea.Cmd {
	sets := s.env.Sets
	load := func(ctx context.Context) (quiz.Set, error) {
		return sets.Load(ctx, src)
	}
	picker := modes.New(s.env, title, load)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: picker} }
}

func (s *SourceScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var b strings.Builder
	b.WriteString("\n\n")

	switch s.kind {
	case KindChapter:
		if s.deck == nil && s.errMsg == "" {
			return center.Foreground(theme.TextDim).Render("\n\n  Loading chapters...")
		}
		if s.deck != nil {
			b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(s.deck.Title))
			b.WriteString("\n\n")
			for i, ch := range s.deck.Chapters {
				style := lipgloss.NewStyle().Foreground(theme.Text)
				prefix := "  "
				if i == s.selected {
					style = theme.Selected
					prefix = "▸ "
				}
				line := fmt.Sprintf("%s%s  (%d outcomes)", prefix, ch.Title, len(ch.Outcomes))
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
				b.WriteString("\n")
			}
		}
	case KindOutcomes:
		b.WriteString(center.Foreground(theme.Text).Render("What should the quiz cover? Separate outcomes with ;"))
		b.WriteString("\n\n")
		b.WriteString(center.Render(s.input.View()))
	default:
		b.WriteString(center.Foreground(theme.Text).Render("Path to a PDF, text or markdown file"))
		b.WriteString("\n\n")
		b.WriteString(center.Render(s.input.View()))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.Error).Render(s.errMsg))
	}
	return b.String()
}

func splitOutcomes(value string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ';' || r == '\n' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
