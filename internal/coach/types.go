package coach

import (
	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/session"
)

// Report is the coaching feedback shown after a quiz.
type Report struct {
	Headline  string   `json:"headline"`
	Strengths []string `json:"strengths"`
	Focus     []string `json:"focus"`
	Actions   []string `json:"actions"`
}

// Input holds everything the coach sees about a finished attempt.
type Input struct {
	Title    string
	Attempt  history.Attempt
	Previous *history.Attempt
	Summary  session.Summary
}
