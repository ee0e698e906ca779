package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/questionset"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screens/decks"
	"github.com/abhisek/studyquiz/internal/screens/env"
)

func testEnv(t *testing.T) *env.Env {
	t.Helper()
	catalog, err := deck.Embedded()
	require.NoError(t, err)
	return &env.Env{
		Sets:   questionset.NewProvider(catalog),
		Decks:  catalog,
		Ledger: history.NewMemoryLedger(),
	}
}

func TestHomeScreen_Stats(t *testing.T) {
	e := testEnv(t)
	ctx := context.Background()
	_, err := e.Ledger.Append(ctx, history.Attempt{QuizID: "a", Score: 3, TotalQuestions: 5, Percentage: 60})
	require.NoError(t, err)
	_, err = e.Ledger.Append(ctx, history.Attempt{QuizID: "b", Score: 4, TotalQuestions: 5, Percentage: 80})
	require.NoError(t, err)

	h := New(e)
	assert.Equal(t, stats{decks: 3, played: 2, best: 80}, h.stats)
	assert.False(t, h.canGenerate)
	assert.Equal(t, moodBlocked, h.mood)
	assert.True(t, h.menu.Items[1].Disabled)
	assert.True(t, h.menu.Items[2].Disabled)
	assert.Contains(t, h.View(100, 30), "BEST 80%")
}

func TestPickMood(t *testing.T) {
	cases := []struct {
		name        string
		canGenerate bool
		played      int
		best        int
		want        mood
	}{
		{"no key", false, 4, 100, moodBlocked},
		{"first visit", true, 0, 0, moodFresh},
		{"strong", true, 2, 80, moodProud},
		{"keep going", true, 2, 79, moodPlayed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pickMood(tc.canGenerate, tc.played, tc.best))
		})
	}
}

func TestHomeScreen_SkipsDisabledItems(t *testing.T) {
	h := New(testEnv(t))
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, h.menu.Selected, "cursor lands on history")
}

func TestHomeScreen_OpensDecks(t *testing.T) {
	h := New(testEnv(t))
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &decks.DecksScreen{}, push.Screen)
}

func TestHomeScreen_ShortTerminalUsesLines(t *testing.T) {
	h := New(testEnv(t))
	out := h.View(100, 14)
	assert.Contains(t, out, "▸ PLAY A DECK")
	assert.NotContains(t, out, "╭───────╮", "card is hidden when compact")
}
