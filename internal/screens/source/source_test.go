package source

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screens/env"
	"github.com/abhisek/studyquiz/internal/screens/modes"
)

func typeText(s *SourceScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestSplitOutcomes(t *testing.T) {
	got := splitOutcomes(" Name the organelles ;; Explain mitosis\nCompare cells ")
	want := []string{"Name the organelles", "Explain mitosis", "Compare cells"}
	if !slices.Equal(got, want) {
		t.Errorf("splitOutcomes = %q, want %q", got, want)
	}
}

func TestSourceScreen_FileMissing(t *testing.T) {
	s := New(&env.Env{}, KindFile)
	s.Init()
	typeText(s, filepath.Join(t.TempDir(), "missing.pdf"))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("missing file should not move on")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
}

func TestSourceScreen_FileReplacesWithModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("Cells are the basic unit of life."), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(&env.Env{Count: 5}, KindFile)
	s.Init()
	typeText(s, path)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*modes.ModesScreen); !ok {
		t.Errorf("replaced with %T", msg.Screen)
	}
}

func TestSourceScreen_Chapters(t *testing.T) {
	catalog, err := deck.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	s := NewForDeck(&env.Env{Decks: catalog}, "biology-cells")
	s.Update(s.Init()())
	if s.deck == nil || len(s.deck.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %+v (err %q)", s.deck, s.errMsg)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg")
	}
}
