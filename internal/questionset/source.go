package questionset

import "github.com/abhisek/studyquiz/internal/upload"

// Source selects where a question set comes from.
type Source interface {
	source()
}

// DeckSource loads a predefined deck.
type DeckSource struct {
	DeckID string
}

// DocumentSource generates questions from an uploaded document.
type DocumentSource struct {
	Upload upload.Source
	Count  int
}

// OutcomesSource generates questions from curriculum outcomes. When
// Outcomes is empty they are taken from the deck chapter.
type OutcomesSource struct {
	DeckID    string
	ChapterID string
	Outcomes  []string
	Count     int
}

func (DeckSource) source()     {}
func (DocumentSource) source() {}
func (OutcomesSource) source() {}
