// Package session holds the quiz session state machine.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/studyquiz/internal/quiz"
)

// Phase represents where a session is in its lifecycle.
type Phase int

const (
	PhaseIdle       Phase = iota // No quiz set
	PhaseInProgress              // Serving questions
	PhaseCompleted               // Every question answered and advanced past
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInProgress:
		return "in-progress"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	// ErrInvalidTransition is wrapped by every action called in the wrong phase.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrAlreadyAnswered is returned when the current question was answered.
	ErrAlreadyAnswered = errors.New("current question already answered")

	// ErrUnanswered is returned when advancing past an unanswered question.
	ErrUnanswered = errors.New("current question not answered")

	// ErrAlreadySaved is returned by a second SaveAttempt for the same run.
	ErrAlreadySaved = errors.New("attempt already saved")
)

func transitionError(action string, phase Phase) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, action, phase)
}

// State is a point-in-time copy of a session, safe to hand to renderers
// and transports.
type State struct {
	// QuizID identifies the deck or generated set in play.
	QuizID string

	// Mode is the timing mode chosen for the session.
	Mode quiz.Mode

	// Phase is the lifecycle phase.
	Phase Phase

	// Questions is the fixed question list of the session.
	Questions []quiz.Question

	// CurrentIndex points at the question on screen; equals len(Questions)
	// once the session is complete.
	CurrentIndex int

	// Answered is true when the current question has been answered.
	Answered bool

	Score         int
	WrongAnswers  []quiz.WrongAnswer
	ResponseTimes []float64

	// QuestionStartedAt is restamped whenever a new question begins.
	QuestionStartedAt time.Time

	// AttemptNumber is the number this run will have if saved.
	AttemptNumber int

	// Saved is true once SaveAttempt succeeded for this run.
	Saved bool
}

// Current returns the question on screen, or false when the session is
// idle or complete.
func (s State) Current() (quiz.Question, bool) {
	if s.Phase != PhaseInProgress || s.CurrentIndex >= len(s.Questions) {
		return quiz.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Total is the number of questions in the session.
func (s State) Total() int {
	return len(s.Questions)
}
