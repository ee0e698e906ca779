// Package questiongen turns source material or curriculum outcomes into
// validated multiple-choice questions using an LLM provider.
package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/quiz"
)

// Generator produces question batches.
type Generator interface {
	// Generate returns the valid questions of one batch. Items failing
	// validation are reported in Batch.Rejected. Zero valid items yield
	// *quiz.EmptyResultError; provider failures yield *quiz.NetworkError.
	Generate(ctx context.Context, input Input) (*Batch, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.Shuffler == nil {
		cfg.Shuffler = quiz.NewRandomShuffler()
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

type batchOutput struct {
	Questions []Item `json:"questions"`
}

func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*Batch, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	count := input.Count
	if count <= 0 {
		count = g.config.DefaultCount
	}
	if g.config.MaxCount > 0 && count > g.config.MaxCount {
		count = g.config.MaxCount
	}

	var docs []llm.Attachment
	if input.Document != nil {
		docs = append(docs, *input.Document)
	}
	msg := llm.UserMessage(buildUserMessage(input, count, g.config), docs...)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{msg},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		var unsupported *llm.ErrUnsupportedAttachment
		if errors.As(err, &unsupported) {
			return nil, err
		}
		return nil, &quiz.NetworkError{Op: "generate questions", Err: err}
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &quiz.NetworkError{
			Op:  "generate questions",
			Err: &llm.ErrInvalidResponse{Content: resp.Content, Err: err},
		}
	}

	return g.validate(raw.Questions, source(input))
}

// validate runs the validator chain, drops failing and duplicate items,
// and builds shuffled questions from the rest.
func (g *LLMGenerator) validate(items []Item, src string) (*Batch, error) {
	batch := &Batch{}
	seen := make(map[string]bool, len(items))
	for i := range items {
		it := &items[i]
		if verr := g.check(it); verr != nil {
			batch.Rejected = append(batch.Rejected, Rejection{Index: i, Prompt: it.Question, Err: verr})
			continue
		}
		key := strings.ToLower(strings.TrimSpace(it.Question))
		if seen[key] {
			batch.Rejected = append(batch.Rejected, Rejection{
				Index:  i,
				Prompt: it.Question,
				Err:    &ValidationError{Validator: "dedup", Message: "question repeated in batch"},
			})
			continue
		}
		seen[key] = true

		q, err := quiz.Draft{
			ID:          uuid.NewString(),
			Category:    it.Category,
			Difficulty:  it.Difficulty,
			Prompt:      it.Question,
			Answer:      it.Answer,
			Distractors: it.Distractors,
		}.Build(g.config.Shuffler)
		if err != nil {
			batch.Rejected = append(batch.Rejected, Rejection{
				Index:  i,
				Prompt: it.Question,
				Err:    &ValidationError{Validator: "build", Message: err.Error()},
			})
			continue
		}
		batch.Questions = append(batch.Questions, q)
	}

	if len(batch.Questions) == 0 {
		return nil, &quiz.EmptyResultError{Source: src, Dropped: len(batch.Rejected)}
	}
	return batch, nil
}

func (g *LLMGenerator) check(it *Item) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(it); verr != nil {
			return verr
		}
	}
	return nil
}

func source(input Input) string {
	switch {
	case input.Document != nil:
		return fmt.Sprintf("document %s", input.Document.Name)
	case len(input.Outcomes) > 0:
		return "curriculum outcomes"
	case input.Title != "":
		return input.Title
	default:
		return "source text"
	}
}
