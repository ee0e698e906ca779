package coach

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/session"
)

func validReportJSON() json.RawMessage {
	return json.RawMessage(`{
		"headline": "Solid improvement on cell structure.",
		"strengths": ["Organelles", "Membranes"],
		"focus": ["Meiosis", "Mitosis phases", "Chromosomes", "Extra"],
		"actions": ["Redraw the mitosis diagram"]
	}`)
}

func testInput() Input {
	prev := history.Attempt{Percentage: 40}
	return Input{
		Title: "Cell Biology",
		Attempt: history.Attempt{
			QuizID:         "biology-cells",
			AttemptNumber:  2,
			Mode:           quiz.ModeTimed,
			Score:          2,
			TotalQuestions: 3,
			Percentage:     67,
			ResponseTimes:  []float64{3, 20, 5},
			WrongAnswers: []quiz.WrongAnswer{
				{QuestionText: "How many daughter cells does meiosis produce?", CorrectAnswer: "4", UserAnswer: ""},
			},
		},
		Previous: &prev,
		Summary: session.Summary{
			TimedOut:   1,
			Categories: []session.CategoryResult{{Category: "Cell Division", Attempted: 2, Correct: 1}},
		},
	}
}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validReportJSON()})
	svc := NewService(mock, DefaultConfig())

	report, err := svc.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Headline == "" || len(report.Strengths) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Focus) != 3 {
		t.Errorf("focus should be capped at 3, got %d", len(report.Focus))
	}

	content := mock.Calls[0].Messages[0].Content
	for _, want := range []string{
		"Score: 2/3 (67%)",
		"Previous attempt: 40%",
		"(ran out of time)",
		"- Cell Division: 1/2",
		"Questions that ran out of time: 1",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("prompt missing %q:\n%s", want, content)
		}
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	_, err := NewService(mock, DefaultConfig()).Generate(context.Background(), testInput())
	if !quiz.IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestGenerate_MissingHeadline(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"headline":"","strengths":[],"focus":[],"actions":[]}`)})
	if _, err := NewService(mock, DefaultConfig()).Generate(context.Background(), testInput()); err == nil {
		t.Fatal("expected error")
	}
}

func waitConsume(t *testing.T, svc *Service) (*Report, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if out, ok := svc.Consume(); ok {
			return out.Report, out.Err
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for coaching")
	return nil, nil
}

func TestRequestAndConsume(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validReportJSON()})
	svc := NewService(mock, DefaultConfig())

	if _, ok := svc.Consume(); ok {
		t.Fatal("nothing should be ready before a request")
	}
	svc.Request(t.Context(), testInput())
	report, err := waitConsume(t, svc)
	if err != nil || report == nil {
		t.Fatalf("expected report, got %v %v", report, err)
	}
	if _, ok := svc.Consume(); ok {
		t.Error("slot should be cleared after consume")
	}
}

func TestRequestSurfacesError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	svc := NewService(mock, DefaultConfig())
	svc.Request(t.Context(), testInput())
	if _, err := waitConsume(t, svc); !quiz.IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestCancelDiscardsLateResult(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validReportJSON()})
	svc := NewService(mock, DefaultConfig())
	svc.Request(t.Context(), testInput())
	svc.Cancel()

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		if _, ok := svc.Consume(); ok {
			t.Fatal("cancelled request must not surface")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// stalledProvider blocks until its request context ends and reports the
// reason on done.
type stalledProvider struct {
	done chan error
}

func (p *stalledProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	p.done <- ctx.Err()
	return nil, ctx.Err()
}

func (p *stalledProvider) ModelID() string { return "stalled" }

func TestCancelAbortsInFlightRequest(t *testing.T) {
	p := &stalledProvider{done: make(chan error, 1)}
	svc := NewService(p, DefaultConfig())
	svc.Request(context.Background(), testInput())
	svc.Cancel()

	select {
	case err := <-p.done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("request ended with %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("provider call kept running after Cancel")
	}
	if _, ok := svc.Consume(); ok {
		t.Error("cancelled request must not surface")
	}
}

func TestNewRequestAbortsPrevious(t *testing.T) {
	p := &stalledProvider{done: make(chan error, 2)}
	svc := NewService(p, DefaultConfig())
	svc.Request(context.Background(), testInput())
	svc.Request(context.Background(), testInput())

	select {
	case err := <-p.done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("first request ended with %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first request was not aborted")
	}
	svc.Cancel()
}
