// Package play drives a quiz session for a presentation layer: it turns
// store state into cards, applies selections single-shot, and applies
// timer expiry as a forfeited answer.
package play

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/timer"
)

// Feedback is the verdict shown after a selection.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackWrong
)

func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackWrong:
		return "wrong"
	default:
		return "none"
	}
}

// Delays are the pauses before auto-advancing. Wrong is longer because
// the correct answer is revealed.
type Delays struct {
	Correct time.Duration
	Wrong   time.Duration
}

// DefaultDelays returns the standard feedback pauses.
func DefaultDelays() Delays {
	return Delays{Correct: 900 * time.Millisecond, Wrong: 2200 * time.Millisecond}
}

var (
	// ErrAlreadySelected is returned when an option was already picked for
	// the current question.
	ErrAlreadySelected = errors.New("option already selected")

	// ErrNoQuestion is returned when no question is on screen.
	ErrNoQuestion = errors.New("no question on screen")
)

// Card is everything a renderer needs for the current question.
type Card struct {
	QuizID        string
	Title         string
	Mode          quiz.Mode
	Question      quiz.Question
	Position      int // 1-based
	Total         int
	Selected      string
	HasSelection  bool
	RevealCorrect bool
	Feedback      Feedback
	TimedOut      bool
	Timed         bool
	Live          bool // a countdown instance is still waiting to expire
	Limit         time.Duration
	Remaining     time.Duration
	TimerKey      timer.Key
	Score         int
	Done          bool
}

// Outcome describes an applied selection or expiry.
type Outcome struct {
	Correct       bool
	CorrectAnswer string
	TimedOut      bool
	Delay         time.Duration
}

// Result is produced when a finished session is saved.
type Result struct {
	Attempt    history.Attempt
	Summary    session.Summary
	Comparison history.Comparison
}

// Controller is the UI-agnostic core of the quiz presentation.
type Controller struct {
	mu        sync.Mutex
	store     *session.Store
	countdown *timer.Countdown
	delays    Delays

	title        string
	policy       quiz.TimerPolicy
	selected     string
	hasSelection bool
	feedback     Feedback
	timedOut     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelays overrides the feedback pauses.
func WithDelays(d Delays) Option {
	return func(c *Controller) { c.delays = d }
}

// WithCountdown injects the countdown, usually one built on a test clock.
func WithCountdown(cd *timer.Countdown) Option {
	return func(c *Controller) { c.countdown = cd }
}

// NewController wraps a session store.
func NewController(store *session.Store, opts ...Option) *Controller {
	c := &Controller{store: store, delays: DefaultDelays()}
	for _, opt := range opts {
		opt(c)
	}
	if c.countdown == nil {
		c.countdown = timer.New(nil)
	}
	return c
}

// Store returns the underlying session store.
func (c *Controller) Store() *session.Store {
	return c.store
}

// Start begins a session over set in the given mode.
func (c *Controller) Start(ctx context.Context, set quiz.Set, mode quiz.Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.SetQuiz(ctx, set.ID, mode, set.Questions); err != nil {
		return err
	}
	c.title = set.Title
	c.policy = mode.Timer()
	c.clearSelection()
	c.startTimer()
	return nil
}

// Select applies the user's choice. Only the first selection per question
// counts.
func (c *Controller) Select(choice string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasSelection {
		return Outcome{}, ErrAlreadySelected
	}
	q, ok := c.store.Current()
	if !ok {
		return Outcome{}, ErrNoQuestion
	}
	correct, err := c.store.Answer(choice, q.CorrectAnswer)
	if err != nil {
		return Outcome{}, err
	}
	c.hasSelection = true
	c.selected = choice
	switch c.policy.Scope {
	case quiz.ScopeQuestion:
		c.countdown.Cancel()
	case quiz.ScopeSession:
		// A session deadline reached during feedback forfeits the next question.
		c.countdown.Hold()
	}
	if correct {
		c.feedback = FeedbackCorrect
		return Outcome{Correct: true, CorrectAnswer: q.CorrectAnswer, Delay: c.delays.Correct}, nil
	}
	c.feedback = FeedbackWrong
	return Outcome{CorrectAnswer: q.CorrectAnswer, Delay: c.delays.Wrong}, nil
}

// Tick checks the countdown instance identified by key. When it has just
// expired with the current question unanswered, the question is forfeited
// with an empty answer and forfeited is true; the caller then advances
// once after the outcome's delay.
func (c *Controller) Tick(key timer.Key) (out Outcome, forfeited bool, err error) {
	if !c.countdown.Tick(key) {
		return Outcome{}, false, nil
	}
	return c.forfeit()
}

// Watch drives the countdown instance key until it expires, goes stale or
// ctx ends. onTick receives the remaining time; onExpire receives what
// Tick would have returned on expiry. Both run on the watching goroutine.
func (c *Controller) Watch(ctx context.Context, key timer.Key, interval time.Duration, onTick func(time.Duration), onExpire func(Outcome, bool, error)) {
	c.countdown.Run(ctx, key, interval, onTick, func() {
		out, forfeited, err := c.forfeit()
		if onExpire != nil {
			onExpire(out, forfeited, err)
		}
	})
}

func (c *Controller) forfeit() (Outcome, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasSelection {
		return Outcome{}, false, nil
	}
	q, ok := c.store.Current()
	if !ok {
		return Outcome{}, false, nil
	}
	if _, err := c.store.Answer("", q.CorrectAnswer); err != nil {
		return Outcome{}, false, fmt.Errorf("forfeit on expiry: %w", err)
	}
	c.hasSelection = true
	c.selected = ""
	c.feedback = FeedbackWrong
	c.timedOut = true
	return Outcome{CorrectAnswer: q.CorrectAnswer, TimedOut: true, Delay: c.delays.Wrong}, true, nil
}

// Advance moves to the next question after feedback. done is true when
// the session is complete and Finish should be called.
func (c *Controller) Advance() (done bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	done, err = c.store.NextQuestion()
	if err != nil {
		return false, err
	}
	c.clearSelection()
	switch {
	case done:
		c.countdown.Cancel()
	case c.policy.Scope == quiz.ScopeQuestion:
		c.countdown.Reset(c.policy.Duration)
	default:
		c.countdown.Release()
	}
	return done, nil
}

// Finish saves the completed attempt and compares it with the previous one.
func (c *Controller) Finish(ctx context.Context) (Result, error) {
	attempt, err := c.store.SaveAttempt(ctx)
	if err != nil {
		return Result{}, err
	}
	cmp, err := history.Compare(ctx, c.store.Ledger(), attempt.QuizID)
	if err != nil {
		return Result{}, fmt.Errorf("compare attempts: %w", err)
	}
	return Result{
		Attempt:    attempt,
		Summary:    session.BuildSummary(c.store.Snapshot()),
		Comparison: cmp,
	}, nil
}

// Retake restarts the same questions.
func (c *Controller) Retake() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.RetakeQuiz(); err != nil {
		return err
	}
	c.clearSelection()
	c.startTimer()
	return nil
}

// Stop cancels any running countdown.
func (c *Controller) Stop() {
	c.countdown.Cancel()
}

// Title returns the title of the running set.
func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// TimerKey returns the key of the running countdown instance.
func (c *Controller) TimerKey() timer.Key {
	return c.countdown.Key()
}

// Card renders the current state.
func (c *Controller) Card() Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.store.Snapshot()
	card := Card{
		QuizID:        st.QuizID,
		Title:         c.title,
		Mode:          st.Mode,
		Position:      st.CurrentIndex + 1,
		Total:         st.Total(),
		Selected:      c.selected,
		HasSelection:  c.hasSelection,
		RevealCorrect: c.feedback == FeedbackWrong,
		Feedback:      c.feedback,
		TimedOut:      c.timedOut,
		Timed:         c.policy.Enabled(),
		Live:          c.countdown.Active(),
		Limit:         c.countdown.Duration(),
		Remaining:     c.countdown.Remaining(),
		TimerKey:      c.countdown.Key(),
		Score:         st.Score,
		Done:          st.Phase == session.PhaseCompleted,
	}
	if q, ok := st.Current(); ok {
		card.Question = q
	}
	if card.Done {
		card.Position = st.Total()
	}
	return card
}

func (c *Controller) clearSelection() {
	c.selected = ""
	c.hasSelection = false
	c.feedback = FeedbackNone
	c.timedOut = false
}

func (c *Controller) startTimer() {
	if c.policy.Enabled() {
		c.countdown.Reset(c.policy.Duration)
		return
	}
	c.countdown.Cancel()
}
