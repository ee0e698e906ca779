package quiz

import (
	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/timer"
)

// timerTickMsg polls the countdown instance identified by Key.
type timerTickMsg struct {
	Key timer.Key
}

// advanceMsg ends the feedback pause that began in Round.
type advanceMsg struct {
	Round int
}

// finishedMsg carries the saved attempt.
type finishedMsg struct {
	Result play.Result
	Err    error
}
