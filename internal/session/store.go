package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/quiz"
)

// Store is the authoritative state container of one quiz session. It is
// safe for concurrent use; each caller owns its own Store.
type Store struct {
	mu     sync.Mutex
	ledger history.Ledger
	now    func() time.Time

	quizID        string
	mode          quiz.Mode
	phase         Phase
	questions     []quiz.Question
	index         int
	answered      bool
	score         int
	wrong         []quiz.WrongAnswer
	responseTimes []float64
	startedAt     time.Time
	attemptNumber int
	saved         bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an idle store recording attempts into ledger.
func NewStore(ledger history.Ledger, opts ...Option) *Store {
	s := &Store{ledger: ledger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ledger returns the attempt ledger the store writes to.
func (s *Store) Ledger() history.Ledger {
	return s.ledger
}

// SetQuiz starts a new session. Valid while idle or after completion.
func (s *Store) SetQuiz(ctx context.Context, quizID string, mode quiz.Mode, questions []quiz.Question) error {
	prior, err := s.ledger.Attempts(ctx, quizID)
	if err != nil {
		return fmt.Errorf("load prior attempts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseInProgress {
		return transitionError("set quiz", s.phase)
	}
	s.quizID = quizID
	s.mode = mode
	s.questions = quiz.CloneAll(questions)
	s.attemptNumber = len(prior) + 1
	s.resetRun()
	return nil
}

// Answer records the response to the current question and reports whether
// it was correct. It does not advance.
func (s *Store) Answer(choice, correct string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return false, transitionError("answer", s.phase)
	}
	if s.answered {
		return false, ErrAlreadyAnswered
	}
	s.answered = true
	s.responseTimes = append(s.responseTimes, s.now().Sub(s.startedAt).Seconds())
	if choice == correct {
		s.score++
		return true, nil
	}
	s.wrong = append(s.wrong, quiz.WrongAnswer{
		QuestionText:  s.questions[s.index].Prompt,
		CorrectAnswer: correct,
		UserAnswer:    choice,
	})
	return false, nil
}

// NextQuestion advances past the answered current question. done is true
// when the session has reached its end.
func (s *Store) NextQuestion() (done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return false, transitionError("next question", s.phase)
	}
	if !s.answered {
		return false, ErrUnanswered
	}
	s.index++
	s.answered = false
	s.startedAt = s.now()
	if s.index >= len(s.questions) {
		s.phase = PhaseCompleted
		return true, nil
	}
	return false, nil
}

// SaveAttempt archives the completed run into the ledger. Only the first
// call per run appends; later calls return ErrAlreadySaved.
func (s *Store) SaveAttempt(ctx context.Context) (history.Attempt, error) {
	s.mu.Lock()
	if s.phase != PhaseCompleted {
		phase := s.phase
		s.mu.Unlock()
		return history.Attempt{}, transitionError("save attempt", phase)
	}
	if s.saved {
		s.mu.Unlock()
		return history.Attempt{}, ErrAlreadySaved
	}
	s.saved = true
	total := len(s.questions)
	attempt := history.Attempt{
		QuizID:         s.quizID,
		Mode:           s.mode,
		Score:          s.score,
		TotalQuestions: total,
		Percentage:     history.Percentage(s.score, total),
		ResponseTimes:  append([]float64(nil), s.responseTimes...),
		WrongAnswers:   append([]quiz.WrongAnswer(nil), s.wrong...),
		CompletedAt:    s.now(),
	}
	s.mu.Unlock()

	saved, err := s.ledger.Append(ctx, attempt)
	if err != nil {
		s.mu.Lock()
		s.saved = false
		s.mu.Unlock()
		return history.Attempt{}, fmt.Errorf("append attempt: %w", err)
	}
	return saved, nil
}

// RetakeQuiz restarts the same questions. History and the attempt number
// are left alone.
func (s *Store) RetakeQuiz() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseIdle {
		return transitionError("retake", s.phase)
	}
	s.resetRun()
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		QuizID:            s.quizID,
		Mode:              s.mode,
		Phase:             s.phase,
		Questions:         quiz.CloneAll(s.questions),
		CurrentIndex:      s.index,
		Answered:          s.answered,
		Score:             s.score,
		WrongAnswers:      append([]quiz.WrongAnswer(nil), s.wrong...),
		ResponseTimes:     append([]float64(nil), s.responseTimes...),
		QuestionStartedAt: s.startedAt,
		AttemptNumber:     s.attemptNumber,
		Saved:             s.saved,
	}
}

// Current returns the question on screen.
func (s *Store) Current() (quiz.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress || s.index >= len(s.questions) {
		return quiz.Question{}, false
	}
	return s.questions[s.index].Clone(), true
}

// Phase returns the lifecycle phase.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// resetRun clears per-run state. Caller holds mu.
func (s *Store) resetRun() {
	s.index = 0
	s.score = 0
	s.answered = false
	s.wrong = nil
	s.responseTimes = nil
	s.saved = false
	s.startedAt = s.now()
	s.phase = PhaseInProgress
	if len(s.questions) == 0 {
		s.phase = PhaseCompleted
	}
}
