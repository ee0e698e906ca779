package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/studyquiz/internal/quiz"
)

// Validator checks a raw item before it becomes a question.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural".
	Name() string

	// Validate returns nil if the item passes.
	Validate(it *Item) *ValidationError
}

// ValidationError describes why an item was dropped.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks that required fields are present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(it *Item) *ValidationError {
	switch {
	case strings.TrimSpace(it.Question) == "":
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	case strings.TrimSpace(it.Answer) == "":
		return &ValidationError{Validator: v.Name(), Message: "answer is empty"}
	case len(it.Question) > 500:
		return &ValidationError{Validator: v.Name(), Message: "question exceeds 500 characters"}
	case len(it.Answer) > 200:
		return &ValidationError{Validator: v.Name(), Message: "answer exceeds 200 characters"}
	}
	return nil
}

// OptionsValidator requires at least quiz.MinOptions distinct options once
// the answer and distractors are de-duplicated.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(it *Item) *ValidationError {
	opts := quiz.DedupeOptions(it.Answer, it.Distractors)
	if len(opts) < quiz.MinOptions {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%d distinct options, need at least %d", len(opts), quiz.MinOptions),
		}
	}
	return nil
}
