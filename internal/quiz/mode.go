package quiz

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how a session is timed.
type Mode string

const (
	ModeNormal  Mode = "normal"
	ModeTimed   Mode = "timed"
	ModePopQuiz Mode = "popquiz"
)

const (
	// QuestionTimeLimit is the per-question countdown in timed mode.
	QuestionTimeLimit = 20 * time.Second
	// PopQuizTimeLimit is the single whole-session countdown of a pop quiz.
	PopQuizTimeLimit = 600 * time.Second
)

// TimerScope says whether a countdown restarts for every question.
type TimerScope int

const (
	ScopeNone TimerScope = iota
	ScopeQuestion
	ScopeSession
)

// TimerPolicy describes the countdown a mode runs.
type TimerPolicy struct {
	Duration time.Duration
	Scope    TimerScope
}

// Enabled reports whether the mode shows a countdown at all.
func (p TimerPolicy) Enabled() bool {
	return p.Scope != ScopeNone && p.Duration > 0
}

// Timer returns the countdown policy of the mode.
func (m Mode) Timer() TimerPolicy {
	switch m {
	case ModeTimed:
		return TimerPolicy{Duration: QuestionTimeLimit, Scope: ScopeQuestion}
	case ModePopQuiz:
		return TimerPolicy{Duration: PopQuizTimeLimit, Scope: ScopeSession}
	default:
		return TimerPolicy{}
	}
}

// Label is the human-readable mode name.
func (m Mode) Label() string {
	switch m {
	case ModeTimed:
		return "Timed"
	case ModePopQuiz:
		return "Pop Quiz"
	default:
		return "Normal"
	}
}

// Modes lists the selectable modes in menu order.
func Modes() []Mode {
	return []Mode{ModeNormal, ModeTimed, ModePopQuiz}
}

// ParseMode parses a mode name. The empty string means normal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return ModeNormal, nil
	case "timed":
		return ModeTimed, nil
	case "popquiz", "pop-quiz", "pop":
		return ModePopQuiz, nil
	default:
		return "", fmt.Errorf("unknown mode %q: must be normal, timed or popquiz", s)
	}
}
