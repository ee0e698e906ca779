package questiongen

import (
	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/quiz"
)

// Input holds all context needed to generate a question batch.
type Input struct {
	// Title names the material, e.g. an uploaded file name or chapter title.
	Title string

	// Subject and Grade steer vocabulary and difficulty.
	Subject string
	Grade   string

	// Text is source material sent inline (extracted notes, plain text
	// uploads). May be empty when Document or Outcomes are set.
	Text string

	// Outcomes are curriculum learning outcomes to test.
	Outcomes []string

	// Document is sent to the model as an attachment (PDF uploads).
	Document *llm.Attachment

	// Count is the number of questions requested. Zero uses the config
	// default; values above Config.MaxCount are clamped.
	Count int

	// Avoid lists question prompts that should not be repeated.
	Avoid []string
}

// Item is one raw question as returned by the model, before validation.
type Item struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Distractors []string `json:"distractors"`
	Difficulty  string   `json:"difficulty"`
	Category    string   `json:"category"`
}

// Rejection records an item dropped by the validator chain.
type Rejection struct {
	Index  int
	Prompt string
	Err    *ValidationError
}

// Batch is the validated output of one generation call.
type Batch struct {
	Questions []quiz.Question
	Rejected  []Rejection
}
