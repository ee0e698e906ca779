package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/theme"
)

// mood picks the flash card drawn above the menu.
type mood int

const (
	moodFresh   mood = iota // nothing played yet
	moodProud               // best score of 80% or more
	moodPlayed              // played, still room to improve
	moodBlocked             // generation unavailable
)

var cardArt = map[mood]string{
	moodFresh: `╭───────╮
│   ?   │
│ A · B │
│ C · D │
╰───────╯`,
	moodProud: `╭───────╮
│ ★ ★ ★ │
│   ✓   │
│  A+   │
╰───────╯`,
	moodPlayed: `╭───────╮
│   ✓   │
│ A · B │
│ again │
╰───────╯`,
	moodBlocked: `╭───────╮
│   ?   │
│  key  │
│  ...  │
╰───────╯`,
}

func pickMood(canGenerate bool, played, best int) mood {
	switch {
	case !canGenerate:
		return moodBlocked
	case played == 0:
		return moodFresh
	case best >= 80:
		return moodProud
	default:
		return moodPlayed
	}
}

func (m mood) render(cw int) string {
	fg := theme.Primary
	switch m {
	case moodProud:
		fg = theme.ArcadeYellow
	case moodBlocked:
		fg = theme.Accent
	}
	card := lipgloss.NewStyle().Foreground(fg).Render(cardArt[m])
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, card)
}
