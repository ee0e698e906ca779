// Package screen is the contract between the router and each page of
// the terminal UI.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquiz/internal/ui/layout"
)

// Screen is one page. View receives the area left between the header
// and the footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that own background work, such as
// an LLM request. The router calls Close once the screen leaves the stack.
type Closer interface {
	Close()
}

// StatusProvider puts a short status, such as a running score, at the
// right of the header.
type StatusProvider interface {
	Status() string
}
