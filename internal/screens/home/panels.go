package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/theme"
)

const (
	marquee      = "S · T · U · D · Y · Q · U · I · Z"
	buttonWidth  = 22
	tallEnough   = 28
	noKeyWarning = "⚠ Set an LLM API key to generate quizzes (see studyquiz --help)"
)

var (
	marqueeStyle = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	statStyle    = lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(theme.TextDim)
	warnStyle    = lipgloss.NewStyle().Foreground(theme.Accent)
	statsBox     = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.ArcadeCyan).
			Align(lipgloss.Center).
			Padding(0, 1)
	dimButton = lipgloss.NewStyle().
			Width(buttonWidth).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1)
	hotLine = lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		Bold(true)
)

func centered(cw int, s string) string {
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, s)
}

// stats is the dashboard line under the card.
type stats struct {
	decks, played, best int
}

func (s stats) render(cw int, compact bool) string {
	var parts []string
	if compact {
		parts = []string{fmt.Sprintf("◆%d", s.decks), fmt.Sprintf("★%d", s.played)}
		if s.played > 0 {
			parts = append(parts, fmt.Sprintf("▲%d%%", s.best))
		}
	} else {
		parts = []string{fmt.Sprintf("◆ %d DECKS", s.decks), fmt.Sprintf("★ %d PLAYED", s.played)}
		if s.played > 0 {
			parts = append(parts, fmt.Sprintf("▲ BEST %d%%", s.best))
		}
	}
	for i, p := range parts {
		parts[i] = statStyle.Render(p)
	}
	return statsBox.Width(cw - 2).Render(strings.Join(parts, "  "))
}

// buttons draws the menu as bordered buttons, or as single lines when
// the terminal is short.
func buttons(m components.Menu, cw int, short bool) string {
	rows := make([]string, len(m.Items))
	for i, it := range m.Items {
		hot := i == m.Selected
		switch {
		case short && it.Disabled:
			rows[i] = dimStyle.Render("   " + it.Label)
		case short && hot:
			rows[i] = hotLine.Render(" ▸ " + it.Label + " ")
		case short:
			rows[i] = "   " + it.Label
		case it.Disabled:
			rows[i] = dimButton.Render(it.Label)
		default:
			rows[i] = components.ArcadeButton(it.Label, hot, buttonWidth)
		}
	}
	return centered(cw, lipgloss.JoinVertical(lipgloss.Center, rows...))
}
