package ws

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/abhisek/studyquiz/internal/coach"
	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/quiz"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	QuizID string `json:"quizId"`
	Mode   string `json:"mode"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type questionPayload struct {
	QuizID      string   `json:"quizId"`
	Title       string   `json:"title"`
	Mode        string   `json:"mode"`
	Position    int      `json:"position"`
	Total       int      `json:"total"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Category    string   `json:"category,omitempty"`
	Difficulty  string   `json:"difficulty"`
	Timed       bool     `json:"timed"`
	RemainingMs int64    `json:"remainingMs"`
	Score       int      `json:"score"`
}

type tickPayload struct {
	RemainingSec int `json:"remainingSec"`
}

type feedbackPayload struct {
	Correct       bool   `json:"correct"`
	Selected      string `json:"selected"`
	CorrectAnswer string `json:"correctAnswer"`
	TimedOut      bool   `json:"timedOut"`
	DelayMs       int64  `json:"delayMs"`
	Score         int    `json:"score"`
}

type categoryPayload struct {
	Category  string `json:"category"`
	Attempted int    `json:"attempted"`
	Correct   int    `json:"correct"`
}

type resultPayload struct {
	Attempt            history.Attempt   `json:"attempt"`
	HasDelta           bool              `json:"hasDelta"`
	Delta              int               `json:"delta"`
	PreviousPercentage *int              `json:"previousPercentage,omitempty"`
	TimedOut           int               `json:"timedOut"`
	Categories         []categoryPayload `json:"categories"`
}

type errorPayload struct {
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func questionMessage(card play.Card) outboundMessage {
	q := card.Question
	return outboundMessage{Type: "question", Payload: questionPayload{
		QuizID:      card.QuizID,
		Title:       card.Title,
		Mode:        string(card.Mode),
		Position:    card.Position,
		Total:       card.Total,
		Prompt:      q.Prompt,
		Options:     q.Options,
		Category:    q.Category,
		Difficulty:  string(q.Difficulty),
		Timed:       card.Timed,
		RemainingMs: card.Remaining.Milliseconds(),
		Score:       card.Score,
	}}
}

func tickMessage(remaining time.Duration) outboundMessage {
	return outboundMessage{Type: "tick", Payload: tickPayload{RemainingSec: int(remaining / time.Second)}}
}

func feedbackMessage(out play.Outcome, selected string, score int) outboundMessage {
	return outboundMessage{Type: "feedback", Payload: feedbackPayload{
		Correct:       out.Correct,
		Selected:      selected,
		CorrectAnswer: out.CorrectAnswer,
		TimedOut:      out.TimedOut,
		DelayMs:       out.Delay.Milliseconds(),
		Score:         score,
	}}
}

func resultMessage(res play.Result) outboundMessage {
	p := resultPayload{
		Attempt:  res.Attempt,
		HasDelta: res.Comparison.HasDelta,
		Delta:    res.Comparison.Delta,
		TimedOut: res.Summary.TimedOut,
	}
	if prev := res.Comparison.Previous; prev != nil {
		pct := prev.Percentage
		p.PreviousPercentage = &pct
	}
	for _, c := range res.Summary.Categories {
		p.Categories = append(p.Categories, categoryPayload(c))
	}
	return outboundMessage{Type: "result", Payload: p}
}

func coachingMessage(r *coach.Report) outboundMessage {
	return outboundMessage{Type: "coaching", Payload: r}
}

func errorMessage(err error) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error(), Retryable: retryable(err)}}
}

// retryable reports whether sending the same request again may succeed.
func retryable(err error) bool {
	var netErr *quiz.NetworkError
	var empty *quiz.EmptyResultError
	switch {
	case errors.As(err, &netErr):
		return netErr.Retryable()
	case errors.As(err, &empty):
		return true
	}
	return false
}
