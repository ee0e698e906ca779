// Package home is the main menu.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/screens/decks"
	"github.com/abhisek/studyquiz/internal/screens/env"
	"github.com/abhisek/studyquiz/internal/screens/history"
	"github.com/abhisek/studyquiz/internal/screens/source"
	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/layout"
)

// chrome is the header, footer and frame height the router takes away.
const chrome = 8

type HomeScreen struct {
	menu        components.Menu
	stats       stats
	canGenerate bool
	mood        mood
}

var _ screen.Screen = (*HomeScreen)(nil)

func open(s screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
}

// New builds the menu. Stats are read once, when the screen opens.
func New(e *env.Env) *HomeScreen {
	canGenerate := e.Sets != nil && e.Sets.CanGenerate()
	st := readStats(context.Background(), e)

	return &HomeScreen{
		menu: components.NewMenu([]components.MenuItem{
			{Label: "PLAY A DECK", Action: open(decks.New(e))},
			{Label: "FROM A FILE", Disabled: !canGenerate, Action: open(source.New(e, source.KindFile))},
			{Label: "FROM OUTCOMES", Disabled: !canGenerate, Action: open(source.New(e, source.KindOutcomes))},
			{Label: "HISTORY", Action: open(history.New(e.Ledger))},
			{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
		}),
		stats:       st,
		canGenerate: canGenerate,
		mood:        pickMood(canGenerate, st.played, st.best),
	}
}

// readStats tolerates a missing or failing backend; the menu still opens.
func readStats(ctx context.Context, e *env.Env) stats {
	var st stats
	if e.Decks != nil {
		if list, err := e.Decks.ListDecks(ctx); err == nil {
			st.decks = len(list)
		}
	}
	if e.Ledger == nil {
		return st
	}
	ids, err := e.Ledger.QuizIDs(ctx)
	if err != nil {
		return st
	}
	st.played = len(ids)
	for _, id := range ids {
		attempts, err := e.Ledger.Attempts(ctx, id)
		if err != nil {
			continue
		}
		for _, a := range attempts {
			st.best = max(st.best, a.Percentage)
		}
	}
	return st
}

func (h *HomeScreen) Init() tea.Cmd { return nil }

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	term := height + chrome
	compact := layout.IsCompactHeight(term) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	parts := []string{centered(cw, marqueeStyle.Render(marquee))}
	if !compact {
		parts = append(parts, h.mood.render(cw))
	}
	parts = append(parts, h.stats.render(cw, compact))
	if !h.canGenerate {
		parts = append(parts, warnStyle.Width(cw).Align(lipgloss.Center).Render(noKeyWarning))
	}
	parts = append(parts, buttons(h.menu, cw, term < tallEnough))

	return components.CabinetFrame(strings.Join(parts, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string { return "Home" }
