// Package results shows a finished attempt, its improvement over the
// previous one and optional coaching.
package results

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquiz/internal/coach"
	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/screens/env"
	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/layout"
)

// RetakeMsg asks the quiz screen underneath to replay the same questions.
type RetakeMsg struct{}

type coachPollMsg struct{}

const coachPollInterval = 200 * time.Millisecond

// ResultsScreen displays the outcome of one attempt.
type ResultsScreen struct {
	coach  *coach.Service
	title  string
	result play.Result
	menu   components.Menu
	labels []string

	coaching bool
	report   *coach.Report
	coachErr error
}

var (
	_ screen.Screen          = (*ResultsScreen)(nil)
	_ screen.KeyHintProvider = (*ResultsScreen)(nil)
	_ screen.Closer          = (*ResultsScreen)(nil)
)

// New creates a ResultsScreen for res.
func New(e *env.Env, title string, res play.Result) *ResultsScreen {
	s := &ResultsScreen{coach: e.Coach, title: title, result: res}
	s.labels = []string{"RETAKE", "HOME"}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: s.labels[0], Action: s.leave(func() tea.Msg { return RetakeMsg{} })},
		{Label: s.labels[1], Action: s.leave(func() tea.Msg { return router.PopToRootMsg{} })},
	})
	return s
}

// leave pops this screen, then delivers next to whatever is below.
func (s *ResultsScreen) leave(next tea.Msg) func() tea.Cmd {
	return func() tea.Cmd {
		return tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return next },
		)
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	if s.coach == nil {
		return nil
	}
	s.coaching = true
	s.coach.Request(context.Background(), coach.Input{
		Title:    s.title,
		Attempt:  s.result.Attempt,
		Previous: s.result.Comparison.Previous,
		Summary:  s.result.Summary,
	})
	return pollCoach()
}

// Close aborts coaching that has not arrived yet.
func (s *ResultsScreen) Close() {
	if s.coaching {
		s.coach.Cancel()
		s.coaching = false
	}
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case coachPollMsg:
		if !s.coaching {
			return s, nil
		}
		out, ok := s.coach.Consume()
		if !ok {
			return s, pollCoach()
		}
		s.coaching = false
		s.report, s.coachErr = out.Report, out.Err
		return s, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	return s.render(width)
}

func pollCoach() tea.Cmd {
	return tea.Tick(coachPollInterval, func(time.Time) tea.Msg {
		return coachPollMsg{}
	})
}
