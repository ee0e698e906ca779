// Package quiz holds the question, mode and error types shared by every
// part of a quiz session.
package quiz

import (
	"fmt"
	"strings"
)

// Difficulty is the coarse difficulty label of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a free-form label to a Difficulty. Unknown labels
// become medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Question is a single multiple-choice item. It is created by a question
// set provider when a session starts and never changes afterwards.
type Question struct {
	ID            string     `json:"id"`
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	Prompt        string     `json:"prompt"`
	CorrectAnswer string     `json:"correctAnswer"`
	Options       []string   `json:"options"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question %s: empty prompt", q.ID)
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return fmt.Errorf("question %s: empty correct answer", q.ID)
	}
	seen := make(map[string]bool, len(q.Options))
	hasCorrect := false
	for _, o := range q.Options {
		if seen[o] {
			return fmt.Errorf("question %s: duplicate option %q", q.ID, o)
		}
		seen[o] = true
		if o == q.CorrectAnswer {
			hasCorrect = true
		}
	}
	if len(seen) < MinOptions {
		return fmt.Errorf("question %s: %d options, need at least %d", q.ID, len(seen), MinOptions)
	}
	if !hasCorrect {
		return fmt.Errorf("question %s: correct answer not among options", q.ID)
	}
	return nil
}

// Clone returns a deep copy so callers can't mutate shared option slices.
func (q Question) Clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// CloneAll deep-copies a question list.
func CloneAll(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// WrongAnswer records an incorrect or timed-out response. A timeout is
// recorded with an empty UserAnswer.
type WrongAnswer struct {
	QuestionText  string `json:"questionText"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
}

// TimedOut reports whether the entry was produced by timer expiry.
func (w WrongAnswer) TimedOut() bool {
	return w.UserAnswer == ""
}

// Set is an ordered question list ready to be played.
type Set struct {
	ID        string     `json:"quizId"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}
