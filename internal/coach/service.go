// Package coach produces study feedback for a finished attempt. It reads
// results only and never changes session state.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/quiz"
)

// Config holds coaching generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for coaching.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   768,
		Temperature: 0.5,
	}
}

// Service generates coaching reports.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	pending *Report
	err     error
	ready   bool
}

// NewService creates a coaching service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Request starts async generation. Only the latest request is kept: a
// new Request or Cancel aborts the one in flight.
func (s *Service) Request(ctx context.Context, in Input) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.resetLocked()
	s.cancel = cancel
	seq := s.seq
	s.mu.Unlock()

	go func() {
		defer cancel()
		report, err := s.Generate(ctx, in)
		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return
		}
		s.pending = report
		s.err = err
		s.ready = true
	}()
}

// Outcome is the finished result of a Request.
type Outcome struct {
	Report *Report
	Err    error
}

// Consume returns the outcome of the latest request, or false while
// generation is still running. The slot is cleared once consumed.
func (s *Service) Consume() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return Outcome{}, false
	}
	out := Outcome{Report: s.pending, Err: s.err}
	s.pending, s.err, s.ready = nil, nil, false
	return out, true
}

// Cancel aborts the in-flight request and discards its outcome.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Service) resetLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	s.pending, s.err, s.ready = nil, nil, false
}

// Generate produces a report synchronously.
func (s *Service) Generate(ctx context.Context, in Input) (*Report, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeCoaching)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{llm.UserMessage(buildUserMessage(in))},
		Schema:      ReportSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, &quiz.NetworkError{Op: "coaching", Err: err}
	}

	var out Report
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse coaching response: %w", err)
	}
	if out.Headline == "" {
		return nil, fmt.Errorf("coaching response has no headline")
	}
	out.Strengths = capList(out.Strengths, 3)
	out.Focus = capList(out.Focus, 3)
	out.Actions = capList(out.Actions, 3)
	return &out, nil
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
