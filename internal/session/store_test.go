package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/quiz"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: "q1", Category: "cells", Prompt: "Powerhouse of the cell?", CorrectAnswer: "Mitochondria", Options: []string{"Nucleus", "Mitochondria", "Ribosome"}},
		{ID: "q2", Category: "cells", Prompt: "Site of protein synthesis?", CorrectAnswer: "Ribosome", Options: []string{"Ribosome", "Golgi", "Vacuole"}},
		{ID: "q3", Category: "genetics", Prompt: "DNA base paired with adenine?", CorrectAnswer: "Thymine", Options: []string{"Cytosine", "Thymine", "Guanine"}},
	}
}

func newTestStore(t *testing.T) (*Store, *stepClock, *history.MemoryLedger) {
	t.Helper()
	clk := &stepClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	ledger := history.NewMemoryLedger()
	return NewStore(ledger, WithClock(clk.Now)), clk, ledger
}

func answerAndAdvance(t *testing.T, s *Store, choice string) bool {
	t.Helper()
	q, ok := s.Current()
	if !ok {
		t.Fatal("no current question")
	}
	correct, err := s.Answer(choice, q.CorrectAnswer)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if _, err := s.NextQuestion(); err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	return correct
}

func TestStore_CorrectWrongCorrect(t *testing.T) {
	ctx := context.Background()
	s, clk, _ := newTestStore(t)
	qs := testQuestions()

	if err := s.SetQuiz(ctx, "biology", quiz.ModeNormal, qs); err != nil {
		t.Fatalf("SetQuiz: %v", err)
	}
	clk.Advance(4 * time.Second)
	answerAndAdvance(t, s, "Mitochondria")
	clk.Advance(6 * time.Second)
	answerAndAdvance(t, s, "Golgi")
	clk.Advance(2 * time.Second)
	answerAndAdvance(t, s, "Thymine")

	st := s.Snapshot()
	if st.Phase != PhaseCompleted {
		t.Fatalf("phase = %v, want completed", st.Phase)
	}
	if st.Score != 2 || len(st.WrongAnswers) != 1 {
		t.Fatalf("score = %d, wrong = %d", st.Score, len(st.WrongAnswers))
	}
	if w := st.WrongAnswers[0]; w.QuestionText != qs[1].Prompt || w.CorrectAnswer != "Ribosome" || w.UserAnswer != "Golgi" {
		t.Errorf("wrong answer = %+v", w)
	}
	wantTimes := []float64{4, 6, 2}
	for i, rt := range st.ResponseTimes {
		if rt != wantTimes[i] {
			t.Errorf("responseTimes[%d] = %v, want %v", i, rt, wantTimes[i])
		}
	}

	a, err := s.SaveAttempt(ctx)
	if err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	if a.Percentage != 67 || a.AttemptNumber != 1 || a.TotalQuestions != 3 {
		t.Errorf("attempt = %+v", a)
	}
}

func TestStore_ScorePlusWrongEqualsTotal(t *testing.T) {
	ctx := context.Background()
	patterns := [][]bool{
		{true, true, true},
		{false, false, false},
		{true, false, true},
		{false, true, false},
	}
	for _, pat := range patterns {
		s, _, _ := newTestStore(t)
		_ = s.SetQuiz(ctx, "q", quiz.ModeNormal, testQuestions())
		for _, right := range pat {
			q, _ := s.Current()
			choice := q.CorrectAnswer
			if !right {
				choice = "nope"
			}
			answerAndAdvance(t, s, choice)
		}
		st := s.Snapshot()
		if st.Score+len(st.WrongAnswers) != len(st.Questions) {
			t.Errorf("pattern %v: score %d + wrong %d != %d", pat, st.Score, len(st.WrongAnswers), len(st.Questions))
		}
	}
}

func TestStore_InvariantsMidFlight(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	_ = s.SetQuiz(ctx, "q", quiz.ModeTimed, testQuestions())

	answerAndAdvance(t, s, "x")
	answerAndAdvance(t, s, "Ribosome")

	st := s.Snapshot()
	if len(st.ResponseTimes) != st.CurrentIndex {
		t.Errorf("len(responseTimes) = %d, index = %d", len(st.ResponseTimes), st.CurrentIndex)
	}
	if st.Score > st.CurrentIndex {
		t.Errorf("score %d > index %d", st.Score, st.CurrentIndex)
	}
}

func TestStore_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	if _, err := s.Answer("a", "a"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Answer while idle: err = %v", err)
	}
	if _, err := s.NextQuestion(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("NextQuestion while idle: err = %v", err)
	}
	if _, err := s.SaveAttempt(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SaveAttempt while idle: err = %v", err)
	}
	if err := s.RetakeQuiz(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("RetakeQuiz while idle: err = %v", err)
	}

	_ = s.SetQuiz(ctx, "q", quiz.ModeNormal, testQuestions())
	if err := s.SetQuiz(ctx, "other", quiz.ModeNormal, testQuestions()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SetQuiz while in progress: err = %v", err)
	}
	if _, err := s.NextQuestion(); !errors.Is(err, ErrUnanswered) {
		t.Errorf("NextQuestion before answer: err = %v", err)
	}
	if _, err := s.Answer("Mitochondria", "Mitochondria"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if _, err := s.Answer("Mitochondria", "Mitochondria"); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("double answer: err = %v", err)
	}
	if st := s.Snapshot(); st.Score != 1 || len(st.ResponseTimes) != 1 {
		t.Errorf("double answer must not be applied: %+v", st)
	}
	if _, err := s.SaveAttempt(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SaveAttempt mid-flight: err = %v", err)
	}
}

func TestStore_SaveAttemptIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _, ledger := newTestStore(t)
	_ = s.SetQuiz(ctx, "q", quiz.ModeNormal, testQuestions())
	for i := 0; i < 3; i++ {
		answerAndAdvance(t, s, "x")
	}

	if _, err := s.SaveAttempt(ctx); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	if _, err := s.SaveAttempt(ctx); !errors.Is(err, ErrAlreadySaved) {
		t.Fatalf("second SaveAttempt: err = %v", err)
	}
	got, _ := ledger.Attempts(ctx, "q")
	if len(got) != 1 {
		t.Errorf("ledger has %d attempts, want 1", len(got))
	}
}

func TestStore_RetakePreservesHistoryUntilSaved(t *testing.T) {
	ctx := context.Background()
	s, _, ledger := newTestStore(t)
	_ = s.SetQuiz(ctx, "q", quiz.ModeNormal, testQuestions())
	for i := 0; i < 3; i++ {
		answerAndAdvance(t, s, "x")
	}
	if _, err := s.SaveAttempt(ctx); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}

	if err := s.RetakeQuiz(); err != nil {
		t.Fatalf("RetakeQuiz: %v", err)
	}
	st := s.Snapshot()
	if st.Phase != PhaseInProgress || st.CurrentIndex != 0 || st.Score != 0 || len(st.WrongAnswers) != 0 || len(st.ResponseTimes) != 0 {
		t.Fatalf("retake did not reset run: %+v", st)
	}
	if st.QuizID != "q" || len(st.Questions) != 3 || st.AttemptNumber != 1 || st.Saved {
		t.Errorf("retake should keep quiz and attempt number: %+v", st)
	}

	answerAndAdvance(t, s, "Mitochondria")
	if got, _ := ledger.Attempts(ctx, "q"); len(got) != 1 {
		t.Errorf("history changed before completion: %d", len(got))
	}
	answerAndAdvance(t, s, "x")
	answerAndAdvance(t, s, "x")
	a, err := s.SaveAttempt(ctx)
	if err != nil {
		t.Fatalf("SaveAttempt after retake: %v", err)
	}
	if a.AttemptNumber != 2 {
		t.Errorf("attempt number = %d, want 2", a.AttemptNumber)
	}
}

func TestStore_SetQuizCountsPriorAttempts(t *testing.T) {
	ctx := context.Background()
	s, _, ledger := newTestStore(t)
	_, _ = ledger.Append(ctx, history.Attempt{QuizID: "q"})
	_, _ = ledger.Append(ctx, history.Attempt{QuizID: "q"})

	_ = s.SetQuiz(ctx, "q", quiz.ModeNormal, testQuestions())
	if got := s.Snapshot().AttemptNumber; got != 3 {
		t.Errorf("AttemptNumber = %d, want 3", got)
	}
}

func TestStore_EmptyQuestionSet(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	if err := s.SetQuiz(ctx, "empty", quiz.ModeNormal, nil); err != nil {
		t.Fatalf("SetQuiz: %v", err)
	}
	if s.Phase() != PhaseCompleted {
		t.Fatalf("phase = %v", s.Phase())
	}
	a, err := s.SaveAttempt(ctx)
	if err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	if a.Percentage != 0 || a.TotalQuestions != 0 {
		t.Errorf("attempt = %+v", a)
	}
}

type failingLedger struct {
	history.Ledger
	fail bool
}

func (f *failingLedger) Append(ctx context.Context, a history.Attempt) (history.Attempt, error) {
	if f.fail {
		return history.Attempt{}, errors.New("disk full")
	}
	return f.Ledger.Append(ctx, a)
}

func TestStore_SaveAttemptFailureCanBeRetried(t *testing.T) {
	ctx := context.Background()
	ledger := &failingLedger{Ledger: history.NewMemoryLedger(), fail: true}
	s := NewStore(ledger)
	_ = s.SetQuiz(ctx, "q", quiz.ModeNormal, testQuestions()[:1])
	answerAndAdvance(t, s, "x")

	if _, err := s.SaveAttempt(ctx); err == nil {
		t.Fatal("expected append failure")
	}
	ledger.fail = false
	if _, err := s.SaveAttempt(ctx); err != nil {
		t.Fatalf("retry SaveAttempt: %v", err)
	}
}

func TestBuildSummary(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	_ = s.SetQuiz(ctx, "q", quiz.ModeTimed, testQuestions())
	answerAndAdvance(t, s, "Mitochondria")
	answerAndAdvance(t, s, "")
	answerAndAdvance(t, s, "Cytosine")

	sum := BuildSummary(s.Snapshot())
	if sum.Correct != 1 || sum.Answered != 3 || sum.TimedOut != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(sum.Categories) != 2 {
		t.Fatalf("categories = %+v", sum.Categories)
	}
	cells, genetics := sum.Categories[0], sum.Categories[1]
	if cells.Category != "cells" || cells.Attempted != 2 || cells.Correct != 1 {
		t.Errorf("cells = %+v", cells)
	}
	if genetics.Attempted != 1 || genetics.Correct != 0 {
		t.Errorf("genetics = %+v", genetics)
	}
	weak := sum.Weakest(1)
	if len(weak) != 1 || weak[0].Category != "genetics" {
		t.Errorf("Weakest = %+v", weak)
	}
}
