package modes

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/screens/env"
	quizscreen "github.com/abhisek/studyquiz/internal/screens/quiz"
)

type stubHome struct{}

func (stubHome) Init() tea.Cmd                             { return nil }
func (h stubHome) Update(tea.Msg) (screen.Screen, tea.Cmd) { return h, nil }
func (stubHome) View(int, int) string                      { return "" }
func (stubHome) Title() string                             { return "home" }

func oneQuestion() quiz.Set {
	return quiz.Set{ID: "s", Title: "Sample", Questions: []quiz.Question{
		{ID: "1", Prompt: "2+2?", CorrectAnswer: "4", Options: []string{"3", "4"}, Difficulty: quiz.DifficultyEasy},
	}}
}

func TestModesScreen_LoadsThenStarts(t *testing.T) {
	e := &env.Env{Ledger: history.NewMemoryLedger()}
	s := New(e, "Sample", func(context.Context) (quiz.Set, error) { return oneQuestion(), nil })

	cmd := s.Init()
	if !s.loading {
		t.Fatal("expected loading state")
	}
	s.Update(cmd())
	if s.set == nil || s.loading {
		t.Fatal("set should be loaded")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected start command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*quizscreen.QuizScreen); !ok {
		t.Errorf("pushed %T", push.Screen)
	}
}

func TestModesScreen_PreselectsConfiguredMode(t *testing.T) {
	e := &env.Env{Ledger: history.NewMemoryLedger(), Mode: quiz.ModePopQuiz}
	s := New(e, "Sample", func(context.Context) (quiz.Set, error) { return oneQuestion(), nil })
	if got := s.modes[s.menu.Selected]; got != quiz.ModePopQuiz {
		t.Fatalf("preselected %q", got)
	}

	plain := New(&env.Env{}, "Sample", nil)
	if plain.menu.Selected != 0 {
		t.Errorf("no configured mode should start at the top, got %d", plain.menu.Selected)
	}
}

func TestModesScreen_RetryOnNetworkError(t *testing.T) {
	calls := 0
	load := func(context.Context) (quiz.Set, error) {
		calls++
		if calls == 1 {
			return quiz.Set{}, &quiz.NetworkError{Op: "generate questions", Err: errors.New("timeout")}
		}
		return oneQuestion(), nil
	}
	s := New(&env.Env{}, "Sample", load)
	s.Update(s.Init()())
	if s.err == nil {
		t.Fatal("expected load error")
	}
	if len(s.KeyHints()) != 2 {
		t.Errorf("expected retry hint, got %v", s.KeyHints())
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("r should retry")
	}
	s.Update(cmd())
	if s.err != nil || s.set == nil {
		t.Fatalf("retry should load the set, err = %v", s.err)
	}
}

func TestModesScreen_NotFoundIsFinal(t *testing.T) {
	load := func(context.Context) (quiz.Set, error) {
		return quiz.Set{}, &quiz.NotFoundError{Kind: "deck", ID: "nope"}
	}
	s := New(&env.Env{}, "Sample", load)
	s.Update(s.Init()())
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"}); cmd != nil {
		t.Error("not found should not be retried")
	}
}

func TestModesScreen_CloseCancelsLoad(t *testing.T) {
	aborted := make(chan error, 1)
	load := func(ctx context.Context) (quiz.Set, error) {
		<-ctx.Done()
		aborted <- ctx.Err()
		return quiz.Set{}, ctx.Err()
	}
	s := New(&env.Env{}, "Sample", load)
	r := router.New(&stubHome{})
	go r.Push(s)()
	r.Update(router.PopScreenMsg{})

	select {
	case err := <-aborted:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("load ended with %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("popping the screen did not cancel the load")
	}
}
