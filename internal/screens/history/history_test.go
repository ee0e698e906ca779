package history

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/quiz"
)

func seededLedger(t *testing.T) history.Ledger {
	t.Helper()
	l := history.NewMemoryLedger()
	base := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	for _, a := range []history.Attempt{
		{QuizID: "biology-cells", Mode: quiz.ModeNormal, Score: 3, TotalQuestions: 5, Percentage: 60, CompletedAt: base},
		{QuizID: "world-capitals", Mode: quiz.ModeTimed, Score: 4, TotalQuestions: 8, Percentage: 50, CompletedAt: base.Add(time.Hour)},
		{QuizID: "biology-cells", Mode: quiz.ModeNormal, Score: 4, TotalQuestions: 5, Percentage: 85, CompletedAt: base.Add(2 * time.Hour)},
	} {
		_, err := l.Append(context.Background(), a)
		require.NoError(t, err)
	}
	return l
}

// run feeds a command's message back into the screen, as the runtime would.
func run(s *HistoryScreen, cmd tea.Cmd) {
	if cmd != nil {
		s.Update(cmd())
	}
}

func press(s *HistoryScreen, keys ...tea.KeyPressMsg) {
	for _, k := range keys {
		_, cmd := s.Update(k)
		run(s, cmd)
	}
}

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	x     = tea.KeyPressMsg{Code: 'x', Text: "x"}
)

func TestHistoryScreen_GroupsBySet(t *testing.T) {
	s := New(seededLedger(t))
	run(s, s.Init())

	require.Len(t, s.sets, 2)
	assert.Equal(t, "biology-cells", s.sets[0].id, "most recently played first")
	assert.Len(t, s.sets[0].attempts, 2)
	assert.Contains(t, s.View(100, 30), "+25%")
}

func TestHistoryScreen_ExpandsAttempts(t *testing.T) {
	s := New(seededLedger(t))
	run(s, s.Init())

	assert.NotContains(t, s.View(100, 30), "#2")
	press(s, enter)
	assert.True(t, s.open["biology-cells"])
	assert.Contains(t, s.View(100, 30), "#2")

	press(s, down, down)
	assert.Equal(t, 1, s.cursor, "cursor stops at the last set")
}

func TestHistoryScreen_DeleteNeedsConfirmation(t *testing.T) {
	l := seededLedger(t)
	s := New(l)
	run(s, s.Init())

	press(s, x)
	assert.True(t, s.clearing)
	assert.Contains(t, s.View(100, 30), "Press x again")

	press(s, down)
	assert.False(t, s.clearing, "any other key cancels")
	assert.Len(t, s.sets, 2)

	press(s, x, x)
	require.Len(t, s.sets, 1)
	assert.Equal(t, "biology-cells", s.sets[0].id)
	assert.Equal(t, 0, s.cursor)

	left, err := l.Attempts(context.Background(), "world-capitals")
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(history.NewMemoryLedger())
	assert.Contains(t, s.View(80, 24), "Loading")
	run(s, s.Init())
	assert.Contains(t, s.View(80, 24), "No quizzes yet")
	press(s, x, x)
	assert.False(t, s.clearing)
}
