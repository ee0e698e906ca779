// Package welcome is the splash shown before the home menu.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	cardsEnd     = 600 * time.Millisecond
	bannerAt     = 1200 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

// Flash cards dealt one per phase, left to right.
var cards = []string{
	"╭─────╮\n│  ?  │\n│ A B │\n╰─────╯",
	"╭─────╮\n│  ✓  │\n│ C D │\n╰─────╯",
	"╭─────╮\n│  ★  │\n│ +25 │\n╰─────╯",
}

type tickMsg time.Time

// WelcomeScreen deals a few flash cards, shows the banner, then hands
// over to the screen built by homeFactory. Any key skips ahead.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{homeFactory: homeFactory}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= totalDur {
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// dealt returns how many cards are face up.
func (w *WelcomeScreen) dealt() int {
	n := int(w.elapsed*time.Duration(len(cards))/cardsEnd) + 1
	return min(n, len(cards))
}

func (w *WelcomeScreen) View(width, height int) string {
	colors := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(theme.Primary),
		lipgloss.NewStyle().Foreground(theme.Secondary),
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow),
	}
	var row []string
	for i := 0; i < w.dealt(); i++ {
		row = append(row, colors[i%len(colors)].Render(cards[i]), "  ")
	}
	sections := []string{lipgloss.JoinHorizontal(lipgloss.Top, row...)}

	if w.elapsed >= bannerAt {
		sections = append(sections,
			"",
			banner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Quiz yourself. Beat your last score."),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
