package decks

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/questionset"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screens/env"
	"github.com/abhisek/studyquiz/internal/screens/modes"
)

func loadedScreen(t *testing.T) *DecksScreen {
	t.Helper()
	catalog, err := deck.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	s := New(&env.Env{Sets: questionset.NewProvider(catalog), Decks: catalog})
	s.Update(s.Init()())
	return s
}

func TestDecksScreen_Lists(t *testing.T) {
	s := loadedScreen(t)
	if len(s.decks) != 3 {
		t.Fatalf("expected 3 decks, got %d", len(s.decks))
	}
	if !strings.Contains(s.View(100, 30), "World Capitals") {
		t.Error("expected deck titles in view")
	}
	for _, h := range s.KeyHints() {
		if h.Key == "G" {
			t.Error("generate hint shown without a generator")
		}
	}
}

func TestDecksScreen_PlayPushesModes(t *testing.T) {
	s := loadedScreen(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*modes.ModesScreen); !ok {
		t.Errorf("pushed %T", push.Screen)
	}

	// Without a generator, g does nothing.
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'g', Text: "g"}); cmd != nil {
		t.Error("g should be ignored without a generator")
	}
}
