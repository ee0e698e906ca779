// Package deck loads curated question decks from embedded files, a local
// directory, or Postgres.
package deck

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/studyquiz/internal/quiz"
)

// Chapter is a curriculum chapter with its learning outcomes.
type Chapter struct {
	ID       string   `yaml:"id" json:"id"`
	Title    string   `yaml:"title" json:"title"`
	Outcomes []string `yaml:"outcomes" json:"outcomes"`
}

// Item is a deck question as written by an author.
type Item struct {
	ID          string   `yaml:"id" json:"id"`
	Category    string   `yaml:"category" json:"category"`
	Difficulty  string   `yaml:"difficulty" json:"difficulty"`
	Prompt      string   `yaml:"prompt" json:"prompt"`
	Answer      string   `yaml:"answer" json:"answer"`
	Distractors []string `yaml:"distractors" json:"distractors"`
}

func (it Item) draft() quiz.Draft {
	return quiz.Draft{
		ID:          it.ID,
		Category:    it.Category,
		Difficulty:  it.Difficulty,
		Prompt:      it.Prompt,
		Answer:      it.Answer,
		Distractors: it.Distractors,
	}
}

// Deck is a predefined, immutable question collection.
type Deck struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Subject     string    `yaml:"subject" json:"subject"`
	Grade       string    `yaml:"grade" json:"grade"`
	Description string    `yaml:"description" json:"description"`
	Chapters    []Chapter `yaml:"chapters" json:"chapters"`
	Items       []Item    `yaml:"questions" json:"questions"`
}

// Summary is the listing view of a deck.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Grade     string `json:"grade"`
	Questions int    `json:"questions"`
	Chapters  int    `json:"chapters"`
}

// Summary returns the listing view of d.
func (d Deck) Summary() Summary {
	return Summary{
		ID:        d.ID,
		Title:     d.Title,
		Subject:   d.Subject,
		Grade:     d.Grade,
		Questions: len(d.Items),
		Chapters:  len(d.Chapters),
	}
}

// Chapter looks up a chapter by id.
func (d Deck) Chapter(id string) (Chapter, bool) {
	for _, c := range d.Chapters {
		if c.ID == id {
			return c, true
		}
	}
	return Chapter{}, false
}

// Validate checks that the deck has an id and every item is playable.
func (d Deck) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("deck has no id")
	}
	seen := make(map[string]bool, len(d.Items))
	sh := quiz.NewShuffler(0)
	for i, it := range d.Items {
		if it.ID == "" {
			return fmt.Errorf("deck %s: question %d has no id", d.ID, i+1)
		}
		if seen[it.ID] {
			return fmt.Errorf("deck %s: duplicate question id %s", d.ID, it.ID)
		}
		seen[it.ID] = true
		if _, err := it.draft().Build(sh); err != nil {
			return fmt.Errorf("deck %s: question %s: %w", d.ID, it.ID, err)
		}
	}
	return nil
}

// QuestionSet builds a playable set with freshly shuffled options.
func (d Deck) QuestionSet(sh *quiz.Shuffler) (quiz.Set, error) {
	set := quiz.Set{ID: d.ID, Title: d.Title}
	for _, it := range d.Items {
		q, err := it.draft().Build(sh)
		if err != nil {
			return quiz.Set{}, fmt.Errorf("deck %s: question %s: %w", d.ID, it.ID, err)
		}
		set.Questions = append(set.Questions, q)
	}
	return set, nil
}

// Parse decodes and validates a YAML deck.
func Parse(data []byte) (Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("parse deck: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Deck{}, err
	}
	return d, nil
}

// Loader fetches a deck by id. Unknown ids yield *quiz.NotFoundError.
type Loader interface {
	LoadDeck(ctx context.Context, id string) (Deck, error)
}

// Lister enumerates available decks.
type Lister interface {
	ListDecks(ctx context.Context) ([]Summary, error)
}

// Catalog is a Loader that can also list its decks.
type Catalog interface {
	Loader
	Lister
}

func notFound(id string) error {
	return &quiz.NotFoundError{Kind: "deck", ID: id}
}
