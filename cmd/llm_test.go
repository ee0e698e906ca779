package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studyquiz/internal/store"
)

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, &store.LLMEvent{
		ID:        7,
		Timestamp: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		LLMRequestEventData: store.LLMRequestEventData{
			Provider:     "gemini",
			Model:        "gemini-2.0-flash",
			Purpose:      "question-gen",
			InputTokens:  900,
			OutputTokens: 300,
			ErrorMessage: "invalid LLM response: not json",
			RequestBody:  "[user]\nChapter 2\n\n",
		},
	})
	out := buf.String()
	for _, want := range []string{
		"Provider: gemini (gemini-2.0-flash)",
		"Tokens:   900 in / 300 out",
		"Error:    invalid LLM response",
		"── REQUEST",
		"[user]\nChapter 2\n",
		"── RESPONSE",
		"(not captured)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("gemini-2.0-flash", 32); got != "gemini-2.0-flash" {
		t.Errorf("short = %q", got)
	}
	if got := clip("photosynthèse-et-respiration", 10); got != "photosynt…" {
		t.Errorf("long = %q", got)
	}
}

func TestUSD(t *testing.T) {
	if got := usd(0.0042); got != "$0.0042" {
		t.Errorf("small = %q", got)
	}
	if got := usd(1.5); got != "$1.50" {
		t.Errorf("large = %q", got)
	}
}

func TestBuildVersionStamped(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })
	version = "v1.4.0"
	if got := buildVersion(); got != "v1.4.0" {
		t.Errorf("buildVersion = %q", got)
	}
}
