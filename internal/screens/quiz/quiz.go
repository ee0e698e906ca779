// Package quiz is the screen that presents one question at a time.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/screens/env"
	"github.com/abhisek/studyquiz/internal/screens/results"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/timer"
	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/layout"
)

// tickInterval is how often the countdown is polled.
const tickInterval = 250 * time.Millisecond

// QuizScreen implements screen.Screen for a running quiz.
type QuizScreen struct {
	env  *env.Env
	ctrl *play.Controller
	set  quiz.Set
	mode quiz.Mode

	card    play.Card
	choice  components.MultiChoice
	outcome *play.Outcome
	// round increments every time a new question is shown so stale
	// advance messages can be dropped.
	round   int
	ticking timer.Key
	done    bool
	errMsg  string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
	_ screen.Closer          = (*QuizScreen)(nil)
)

// New creates a QuizScreen for set in mode.
func New(e *env.Env, set quiz.Set, mode quiz.Mode) *QuizScreen {
	return &QuizScreen{
		env:  e,
		ctrl: e.NewController(),
		set:  set,
		mode: mode,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	if err := s.ctrl.Start(context.Background(), s.set, s.mode); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.ticking = 0
	return s.present()
}

// Close stops the countdown of an abandoned session.
func (s *QuizScreen) Close() {
	s.ctrl.Stop()
	s.ticking = 0
}

func (s *QuizScreen) Title() string {
	return s.set.Title
}

func (s *QuizScreen) Status() string {
	if s.card.Total == 0 {
		return ""
	}
	status := fmt.Sprintf("★ %d   Q %d/%d", s.card.Score, s.card.Position, s.card.Total)
	if s.card.Timed {
		status += "   ⏱ " + formatClock(s.card.Remaining)
	}
	return status
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" || s.done {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.outcome != nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter/A-D", Description: "Answer"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTick(msg)
	case advanceMsg:
		return s.handleAdvance(msg)
	case finishedMsg:
		return s.handleFinished(msg)
	case results.RetakeMsg:
		return s.handleRetake()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.done {
		return renderDone(width)
	}
	return s.renderQuestion(width, height)
}

// present shows the current card and starts polling its countdown if
// nobody is polling that instance yet.
func (s *QuizScreen) present() tea.Cmd {
	s.round++
	s.outcome = nil
	s.card = s.ctrl.Card()
	if s.card.Done {
		return s.finish()
	}
	s.choice = components.NewMultiChoice(s.card.Question.Options)
	if s.card.Timed && s.card.Live && s.card.TimerKey != s.ticking {
		s.ticking = s.card.TimerKey
		return tickCmd(s.card.TimerKey)
	}
	return nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" || s.done {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.outcome != nil {
		return s, nil
	}

	var picked string
	var ok bool
	s.choice, picked, ok = s.choice.Update(msg)
	if !ok {
		return s, nil
	}
	out, err := s.ctrl.Select(picked)
	if errors.Is(err, play.ErrAlreadySelected) {
		return s, nil
	}
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	return s, s.showOutcome(out, picked)
}

func (s *QuizScreen) handleTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if msg.Key != s.ticking || s.done {
		return s, nil
	}
	out, forfeited, err := s.ctrl.Tick(msg.Key)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if forfeited {
		s.ticking = 0
		return s, s.showOutcome(out, "")
	}
	s.card = s.ctrl.Card()
	if s.card.TimerKey != msg.Key || !s.card.Live {
		s.ticking = 0
		return s, nil
	}
	return s, tickCmd(msg.Key)
}

// showOutcome locks the options and schedules the advance. Correct
// answers move on sooner than wrong ones.
func (s *QuizScreen) showOutcome(out play.Outcome, picked string) tea.Cmd {
	s.outcome = &out
	s.card = s.ctrl.Card()
	s.choice.Lock(picked, out.CorrectAnswer, !out.Correct)
	round := s.round
	return tea.Tick(out.Delay, func(time.Time) tea.Msg {
		return advanceMsg{Round: round}
	})
}

func (s *QuizScreen) handleAdvance(msg advanceMsg) (screen.Screen, tea.Cmd) {
	if msg.Round != s.round || s.outcome == nil {
		return s, nil
	}
	if _, err := s.ctrl.Advance(); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	return s, s.present()
}

func (s *QuizScreen) finish() tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		res, err := ctrl.Finish(context.Background())
		return finishedMsg{Result: res, Err: err}
	}
}

func (s *QuizScreen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.Err, session.ErrAlreadySaved) {
		return s, nil
	}
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.done = true
	res := msg.Result
	title := s.set.Title
	e := s.env
	return s, func() tea.Msg {
		return router.PushScreenMsg{Screen: results.New(e, title, res)}
	}
}

func (s *QuizScreen) handleRetake() (screen.Screen, tea.Cmd) {
	if err := s.ctrl.Retake(); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.done = false
	s.ticking = 0
	return s, s.present()
}

func tickCmd(key timer.Key) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return timerTickMsg{Key: key}
	})
}

func formatClock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
