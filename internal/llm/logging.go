package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abhisek/studyquiz/internal/store"
)

// EventSink receives one record per provider call.
type EventSink interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every call it forwards, successful or not.
// A failure to record is logged and otherwise ignored.
type LoggingProvider struct {
	inner    Provider
	provider string
	sink     EventSink
	logger   *log.Logger
	now      func() time.Time
}

// WithLogging wraps p so each Generate call lands in sink, tagged with the
// provider name and the purpose carried by the context.
func WithLogging(p Provider, provider string, sink EventSink) Provider {
	return &LoggingProvider{
		inner:    p,
		provider: provider,
		sink:     sink,
		logger:   log.Default(),
		now:      time.Now,
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   l.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	switch {
	case err != nil:
		ev.ErrorMessage = err.Error()
	case resp != nil:
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}

	// The caller's context may already be done; the record should still land.
	if serr := l.sink.AppendLLMRequest(context.WithoutCancel(ctx), ev); serr != nil {
		l.logger.Printf("llm: record %s call: %v", ev.Purpose, serr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// transcript renders a request the way the llm inspector shows it.
// Attachment bytes are summarized, never stored.
func transcript(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}

	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		var docs []string
		for _, a := range m.Attachments {
			docs = append(docs, fmt.Sprintf("[attachment: %s %s, %d bytes]", a.Name, a.MIMEType, len(a.Data)))
		}
		section(string(m.Role), strings.Join(append(docs, m.Content), "\n"))
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
