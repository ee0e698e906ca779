// Package questionset resolves a quiz source into a playable question set.
package questionset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/llm"
	"github.com/abhisek/studyquiz/internal/questiongen"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/upload"
)

// Provider loads static decks and generates sets from documents or
// outcomes. Generated sets are remembered by quiz id so a later Get can
// replay them.
type Provider struct {
	decks    deck.Loader
	gen      questiongen.Generator
	limits   upload.Limits
	shuffler *quiz.Shuffler
	logger   *log.Logger

	mu        sync.RWMutex
	generated map[string]quiz.Set
}

// Option configures a Provider.
type Option func(*Provider)

// WithGenerator enables the generated paths.
func WithGenerator(g questiongen.Generator) Option {
	return func(p *Provider) { p.gen = g }
}

// WithLimits overrides upload limits.
func WithLimits(l upload.Limits) Option {
	return func(p *Provider) { p.limits = l }
}

// WithShuffler fixes option ordering, mostly for tests.
func WithShuffler(s *quiz.Shuffler) Option {
	return func(p *Provider) { p.shuffler = s }
}

// WithLogger receives dropped-item reports.
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// ErrGenerationDisabled is returned for generated sources when no LLM
// provider is configured.
var ErrGenerationDisabled = errors.New("question generation is not configured")

func NewProvider(decks deck.Loader, opts ...Option) *Provider {
	p := &Provider{
		decks:     decks,
		limits:    upload.DefaultLimits(),
		logger:    log.New(io.Discard, "", 0),
		generated: make(map[string]quiz.Set),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.shuffler == nil {
		p.shuffler = quiz.NewRandomShuffler()
	}
	return p
}

// CanGenerate reports whether document and outcomes sources are served.
func (p *Provider) CanGenerate() bool {
	return p.gen != nil
}

// Load resolves src into a set. Deck options are reshuffled on every call.
func (p *Provider) Load(ctx context.Context, src Source) (quiz.Set, error) {
	switch s := src.(type) {
	case DeckSource:
		return p.loadDeck(ctx, s.DeckID)
	case DocumentSource:
		return p.fromDocument(ctx, s)
	case OutcomesSource:
		return p.fromOutcomes(ctx, s)
	default:
		return quiz.Set{}, fmt.Errorf("unknown source %T", src)
	}
}

// Get returns a previously generated set or, failing that, the deck with
// that id.
func (p *Provider) Get(ctx context.Context, quizID string) (quiz.Set, error) {
	p.mu.RLock()
	set, ok := p.generated[quizID]
	p.mu.RUnlock()
	if ok {
		return cloneSet(set), nil
	}
	return p.loadDeck(ctx, quizID)
}

func (p *Provider) loadDeck(ctx context.Context, id string) (quiz.Set, error) {
	d, err := p.decks.LoadDeck(ctx, id)
	if err != nil {
		return quiz.Set{}, err
	}
	return d.QuestionSet(p.shuffler)
}

func (p *Provider) fromDocument(ctx context.Context, s DocumentSource) (quiz.Set, error) {
	if p.gen == nil {
		return quiz.Set{}, ErrGenerationDisabled
	}
	doc, err := upload.Decode(s.Upload, p.limits)
	if err != nil {
		return quiz.Set{}, err
	}

	in := questiongen.Input{Title: doc.Name, Count: s.Count}
	if doc.IsText() {
		in.Text = string(doc.Data)
	} else {
		in.Document = &llm.Attachment{Name: doc.Name, MIMEType: doc.MIMEType, Data: doc.Data}
	}

	id := "doc-" + doc.Fingerprint()
	return p.generate(ctx, id, titleFromName(doc.Name), in)
}

func (p *Provider) fromOutcomes(ctx context.Context, s OutcomesSource) (quiz.Set, error) {
	if p.gen == nil {
		return quiz.Set{}, ErrGenerationDisabled
	}

	in := questiongen.Input{Outcomes: s.Outcomes, Count: s.Count}
	title := "Curriculum outcomes"
	if s.DeckID != "" {
		d, err := p.decks.LoadDeck(ctx, s.DeckID)
		if err != nil {
			return quiz.Set{}, err
		}
		in.Subject, in.Grade = d.Subject, d.Grade
		title = d.Title
		if s.ChapterID != "" {
			ch, ok := d.Chapter(s.ChapterID)
			if !ok {
				return quiz.Set{}, &quiz.NotFoundError{Kind: "chapter", ID: s.ChapterID}
			}
			title = fmt.Sprintf("%s: %s", d.Title, ch.Title)
			if len(in.Outcomes) == 0 {
				in.Outcomes = ch.Outcomes
			}
		}
	}
	if len(in.Outcomes) == 0 {
		return quiz.Set{}, &quiz.EmptyResultError{Source: "curriculum outcomes"}
	}
	in.Title = title

	id := outcomesID(s)
	return p.generate(ctx, id, title, in)
}

func (p *Provider) generate(ctx context.Context, id, title string, in questiongen.Input) (quiz.Set, error) {
	p.mu.RLock()
	if prev, ok := p.generated[id]; ok {
		for _, q := range prev.Questions {
			in.Avoid = append(in.Avoid, q.Prompt)
		}
	}
	p.mu.RUnlock()

	batch, err := p.gen.Generate(ctx, in)
	if err != nil {
		return quiz.Set{}, err
	}
	// A cancelled caller no longer wants the result.
	if err := ctx.Err(); err != nil {
		return quiz.Set{}, &quiz.NetworkError{Op: "generate questions", Err: err}
	}
	for _, r := range batch.Rejected {
		p.logger.Printf("questionset: %s: dropped item %d (%q): %v", id, r.Index, r.Prompt, r.Err)
	}

	set := quiz.Set{ID: id, Title: title, Questions: batch.Questions}
	p.mu.Lock()
	p.generated[id] = cloneSet(set)
	p.mu.Unlock()
	return set, nil
}

func outcomesID(s OutcomesSource) string {
	if s.DeckID != "" && s.ChapterID != "" && len(s.Outcomes) == 0 {
		return fmt.Sprintf("outcomes-%s-%s", s.DeckID, s.ChapterID)
	}
	doc := upload.Document{Data: []byte(strings.Join(s.Outcomes, "\n"))}
	if s.DeckID != "" {
		return fmt.Sprintf("outcomes-%s-%s", s.DeckID, doc.Fingerprint())
	}
	return "outcomes-" + doc.Fingerprint()
}

func titleFromName(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	if name == "" {
		return "Uploaded notes"
	}
	return name
}

func cloneSet(s quiz.Set) quiz.Set {
	s.Questions = quiz.CloneAll(s.Questions)
	return s
}
