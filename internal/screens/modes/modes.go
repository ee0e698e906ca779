// Package modes loads a question set and lets the player pick how to
// play it.
package modes

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/screens/env"
	quizscreen "github.com/abhisek/studyquiz/internal/screens/quiz"
	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/layout"
	"github.com/abhisek/studyquiz/internal/ui/theme"
)

// LoadFunc produces the set to play.
type LoadFunc func(ctx context.Context) (quiz.Set, error)

type setLoadedMsg struct {
	Set quiz.Set
	Err error
}

// ModesScreen shows the loading state, then the mode menu.
type ModesScreen struct {
	env     *env.Env
	title   string
	load    LoadFunc
	set     *quiz.Set
	err     error
	loading bool
	cancel  context.CancelFunc
	menu    components.Menu
	modes   []quiz.Mode
}

var (
	_ screen.Screen          = (*ModesScreen)(nil)
	_ screen.KeyHintProvider = (*ModesScreen)(nil)
	_ screen.Closer          = (*ModesScreen)(nil)
)

// New creates a ModesScreen. title is shown while load runs.
func New(e *env.Env, title string, load LoadFunc) *ModesScreen {
	s := &ModesScreen{env: e, title: title, load: load, modes: quiz.Modes()}
	items := make([]components.MenuItem, len(s.modes))
	for i, m := range s.modes {
		items[i] = components.MenuItem{Label: describe(m), Action: s.startAction(m)}
	}
	s.menu = components.NewMenu(items)
	if i := slices.Index(s.modes, e.Mode); i >= 0 {
		s.menu.Selected = i
	}
	return s
}

// Init starts loading. Leaving the screen cancels the load, which stops
// any generation request still running for it.
func (s *ModesScreen) Init() tea.Cmd {
	s.Close()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.loading = true
	s.err = nil
	load := s.load
	return func() tea.Msg {
		set, err := load(ctx)
		return setLoadedMsg{Set: set, Err: err}
	}
}

func (s *ModesScreen) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *ModesScreen) Title() string {
	return "Choose a Mode"
}

func (s *ModesScreen) KeyHints() []layout.KeyHint {
	if s.err != nil {
		if retryable(s.err) {
			return []layout.KeyHint{{Key: "R", Description: "Retry"}, {Key: "Esc", Description: "Back"}}
		}
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ModesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case setLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		set := msg.Set
		s.set = &set
		s.title = set.Title
		return s, nil

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		if s.err != nil {
			if msg.String() == "r" && retryable(s.err) {
				return s, s.Init()
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ModesScreen) startAction(m quiz.Mode) func() tea.Cmd {
	return func() tea.Cmd {
		if s.set == nil {
			return nil
		}
		set := *s.set
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: quizscreen.New(s.env, set, m)}
		}
	}
}

func (s *ModesScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.loading {
		return center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n\n  Preparing %s...", s.title))
	}
	if s.err != nil {
		return center.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  %s", s.err))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(s.set.Title))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d questions", len(s.set.Questions))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}

func describe(m quiz.Mode) string {
	switch m {
	case quiz.ModeTimed:
		return fmt.Sprintf("%s  (%ds per question)", m.Label(), int(quiz.QuestionTimeLimit.Seconds()))
	case quiz.ModePopQuiz:
		return fmt.Sprintf("%s  (%d min for everything)", m.Label(), int(quiz.PopQuizTimeLimit.Minutes()))
	default:
		return fmt.Sprintf("%s  (no clock)", m.Label())
	}
}

func retryable(err error) bool {
	return quiz.IsNetwork(err) || quiz.IsEmptyResult(err)
}
