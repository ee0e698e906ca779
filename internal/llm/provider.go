// Package llm is the model-facing side of question generation and
// coaching. Every backend turns a Request into JSON matching the
// request's Schema; retry, timeout and event logging wrap any backend.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one structured reply.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is one model call: a system prompt plus the conversation so far.
type Request struct {
	System   string    // instructions sent ahead of the conversation
	Messages []Message // oldest first; the last one is usually the user turn

	// Schema, when set, is passed to the backend's structured output mode
	// and the reply is checked against it. Without a schema Content is the
	// reply text.
	Schema *Schema

	MaxTokens   int     // reply cap; Anthropic rejects zero
	Temperature float64 // zero leaves the backend default
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string

	// Attachments go to the model ahead of Content. Backends that cannot
	// take a MIME type fail with *ErrUnsupportedAttachment.
	Attachments []Attachment
}

// UserMessage is a user turn carrying text and optional documents.
func UserMessage(text string, docs ...Attachment) Message {
	return Message{Role: RoleUser, Content: text, Attachments: docs}
}

// Attachment is an uploaded document, such as study notes.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

func (a Attachment) IsText() bool { return strings.HasPrefix(a.MIMEType, "text/") }
func (a Attachment) IsPDF() bool  { return a.MIMEType == "application/pdf" }

// Schema is a named JSON Schema. Name doubles as the schema id sent to
// backends that want one, so keep it kebab-case.
type Schema struct {
	Name        string
	Description string         // optional hint shown to the model
	Definition  map[string]any // the JSON Schema document itself
}

// Response is a backend's reply normalized across vendors.
type Response struct {
	Content    json.RawMessage // the reply, checked against Request.Schema when one was set
	Usage      Usage
	Model      string // the model that actually answered
	StopReason string // StopEnd or StopMaxTokens
}

// Usage is the token count a backend billed for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
