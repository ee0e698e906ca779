// Package history keeps completed quiz attempts per quiz id and compares
// consecutive attempts.
package history

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/abhisek/studyquiz/internal/quiz"
)

// Attempt is an immutable record of one completed run through a question set.
type Attempt struct {
	QuizID         string             `json:"quizId"`
	AttemptNumber  int                `json:"attemptNumber"`
	Mode           quiz.Mode          `json:"mode"`
	Score          int                `json:"score"`
	TotalQuestions int                `json:"totalQuestions"`
	Percentage     int                `json:"percentage"`
	ResponseTimes  []float64          `json:"responseTimes"`
	WrongAnswers   []quiz.WrongAnswer `json:"wrongAnswers"`
	CompletedAt    time.Time          `json:"completedAt"`
}

// Percentage returns round(score/max(total,1)*100).
func Percentage(score, total int) int {
	return int(math.Round(float64(score) / float64(max(total, 1)) * 100))
}

// AverageResponse returns the mean response time in seconds.
func (a Attempt) AverageResponse() float64 {
	if len(a.ResponseTimes) == 0 {
		return 0
	}
	var sum float64
	for _, rt := range a.ResponseTimes {
		sum += rt
	}
	return sum / float64(len(a.ResponseTimes))
}

func (a Attempt) clone() Attempt {
	a.ResponseTimes = append([]float64(nil), a.ResponseTimes...)
	a.WrongAnswers = append([]quiz.WrongAnswer(nil), a.WrongAnswers...)
	return a
}

// Ledger stores attempts keyed by quiz id in insertion order. Append
// assigns the 1-based attempt number.
type Ledger interface {
	Append(ctx context.Context, a Attempt) (Attempt, error)
	Attempts(ctx context.Context, quizID string) ([]Attempt, error)
	QuizIDs(ctx context.Context) ([]string, error)
	// Clear removes the attempts of quizID, or of every quiz when quizID is empty.
	Clear(ctx context.Context, quizID string) error
}

// Improvement returns the percentage change between the last two attempts.
// ok is false when fewer than two attempts exist.
func Improvement(attempts []Attempt) (delta int, ok bool) {
	if len(attempts) < 2 {
		return 0, false
	}
	last := attempts[len(attempts)-1]
	prev := attempts[len(attempts)-2]
	return last.Percentage - prev.Percentage, true
}

// Comparison summarises the latest attempt of a quiz against the one before.
type Comparison struct {
	Latest   *Attempt
	Previous *Attempt
	Delta    int
	HasDelta bool
}

// Compare loads the attempts of quizID and compares the last two.
func Compare(ctx context.Context, l Ledger, quizID string) (Comparison, error) {
	attempts, err := l.Attempts(ctx, quizID)
	if err != nil {
		return Comparison{}, err
	}
	var c Comparison
	if n := len(attempts); n > 0 {
		c.Latest = &attempts[n-1]
		if n > 1 {
			c.Previous = &attempts[n-2]
		}
	}
	c.Delta, c.HasDelta = Improvement(attempts)
	return c, nil
}

// FormatDelta renders a delta the way the results screen shows it.
func FormatDelta(delta int) string {
	switch {
	case delta > 0:
		return "+" + strconv.Itoa(delta) + "%"
	case delta < 0:
		return strconv.Itoa(delta) + "%"
	default:
		return "±0%"
	}
}
