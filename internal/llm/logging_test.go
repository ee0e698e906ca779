package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquiz/internal/store"
)

type recordingSink struct {
	events []store.LLMRequestEventData
	ctxErr error
	err    error
}

func (s *recordingSink) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	s.ctxErr = ctx.Err()
	s.events = append(s.events, data)
	return s.err
}

func steppingClock(step time.Duration) func() time.Time {
	t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestLogging_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"questions":[]}`),
		Usage:   Usage{InputTokens: 120, OutputTokens: 40},
	})
	sink := &recordingSink{}
	p := WithLogging(mock, "anthropic", sink).(*LoggingProvider)
	p.now = steppingClock(250 * time.Millisecond)

	ctx := WithPurpose(context.Background(), PurposeQuestionGen)
	_, err := p.Generate(ctx, Request{
		System: "You write quiz questions.",
		Messages: []Message{{
			Role:        RoleUser,
			Content:     "Chapter 3",
			Attachments: []Attachment{{Name: "notes.pdf", MIMEType: "application/pdf", Data: make([]byte, 2048)}},
		}},
		Schema: &Schema{Name: "batch", Definition: map[string]any{"type": "object"}},
	})
	require.NoError(t, err)
	require.Len(t, sink.events, 1)

	ev := sink.events[0]
	assert.Equal(t, "anthropic", ev.Provider)
	assert.Equal(t, "mock", ev.Model)
	assert.Equal(t, PurposeQuestionGen, ev.Purpose)
	assert.Equal(t, int64(250), ev.LatencyMs)
	assert.True(t, ev.Success)
	assert.Equal(t, 120, ev.InputTokens)
	assert.Equal(t, `{"questions":[]}`, ev.ResponseBody)
	assert.Contains(t, ev.RequestBody, "[system]\nYou write quiz questions.")
	assert.Contains(t, ev.RequestBody, "[attachment: notes.pdf application/pdf, 2048 bytes]\nChapter 3")
	assert.Contains(t, ev.RequestBody, `[schema: batch]`+"\n"+`{"type":"object"}`)
}

func TestLogging_RecordsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}})
	sink := &recordingSink{}
	p := WithLogging(mock, "openai", sink)

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	require.Len(t, sink.events, 1)
	assert.False(t, sink.events[0].Success)
	assert.Equal(t, "unknown", sink.events[0].Purpose)
	assert.True(t, strings.Contains(sink.events[0].ErrorMessage, "503"))
}

func TestLogging_SurvivesCancelledContextAndSinkErrors(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	sink := &recordingSink{err: errors.New("disk full")}
	p := WithLogging(mock, "gemini", sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp, err := p.Generate(ctx, Request{})
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.NoError(t, sink.ctxErr)
}
