// Package env carries the services shared by the TUI screens.
package env

import (
	"time"

	"github.com/abhisek/studyquiz/internal/coach"
	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/questionset"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/timer"
)

// Env holds what the screens need. Coach may be nil when no LLM provider
// is configured; Sets still serves static decks then.
type Env struct {
	Sets   *questionset.Provider
	Decks  deck.Catalog
	Ledger history.Ledger
	Coach  *coach.Service
	Delays play.Delays
	// Mode is preselected in the mode menu; empty means normal.
	Mode quiz.Mode
	// Count is how many questions to ask for when generating.
	Count int
	Now   func() time.Time
}

// NewController builds a controller over the shared ledger.
func (e *Env) NewController() *play.Controller {
	now := e.Now
	if now == nil {
		now = time.Now
	}
	store := session.NewStore(e.Ledger, session.WithClock(now))
	return play.NewController(store,
		play.WithDelays(e.Delays),
		play.WithCountdown(timer.New(now)),
	)
}
