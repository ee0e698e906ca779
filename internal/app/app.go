// Package app hosts the root Bubble Tea model: a router of screens
// framed by a header and a footer.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/screens/env"
	"github.com/abhisek/studyquiz/internal/screens/home"
	"github.com/abhisek/studyquiz/internal/screens/welcome"
	"github.com/abhisek/studyquiz/internal/ui/layout"
)

var (
	quitHint  = layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	backHint  = layout.KeyHint{Key: "Esc", Description: "Back"}
	menuHints = []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
)

type model struct {
	nav           *router.Router
	width, height int
}

func newModel(root screen.Screen) model {
	return model{nav: router.New(root)}
}

func (m model) Init() tea.Cmd {
	return m.nav.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		return m, nil
	}
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// Esc never closes the last screen.
			if m.nav.Depth() == 1 {
				return m, nil
			}
			return m, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return m, m.nav.Update(msg)
}

func (m model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	switch {
	case m.width == 0 || m.height == 0:
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
	default:
		v.SetContent(m.frame())
	}
	return v
}

func (m model) frame() string {
	top := m.nav.Active()

	var title, status string
	if top != nil {
		title = top.Title()
		if sp, ok := top.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.hints(top), m.width)

	body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return layout.RenderFrame(header, m.nav.View(m.width, body), footer, m.width, m.height)
}

// hints prefers the screen's own hints, then Esc on nested screens,
// then menu navigation. Ctrl+C is always listed last.
func (m model) hints(top screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if kp, ok := top.(screen.KeyHintProvider); ok {
		hints = append(hints, kp.KeyHints()...)
	}
	if len(hints) == 0 {
		if m.nav.Depth() > 1 {
			hints = append(hints, backHint)
		} else {
			hints = append(hints, menuHints...)
		}
	}
	return append(hints, quitHint)
}

// Run opens the splash, then the home menu, and blocks until the user
// quits.
func Run(e *env.Env) error {
	splash := welcome.New(func() screen.Screen { return home.New(e) })
	if _, err := tea.NewProgram(newModel(splash)).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
