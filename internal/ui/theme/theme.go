// Package theme holds the quiz palette and the few shared text styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#6366F1") // indigo
	Secondary = lipgloss.Color("#0EA5E9") // sky
	Accent    = lipgloss.Color("#F59E0B") // amber
	Success   = lipgloss.Color("#10B981")
	Error     = lipgloss.Color("#EF4444")
	Warning   = lipgloss.Color("#EAB308")

	Text    = lipgloss.Color("#F1F5F9")
	TextDim = lipgloss.Color("#8B95A7")
	BgDark  = lipgloss.Color("#111827")
	BgCard  = lipgloss.Color("#1F2937")
	Border  = lipgloss.Color("#374151")

	ArcadeYellow = lipgloss.Color("#FDE047")
	ArcadeCyan   = lipgloss.Color("#67E8F9")
)

// Answer states for choice lists.
var (
	Selected  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Urgency colours a countdown by the fraction of time left.
func Urgency(left float64) color.Color {
	switch {
	case left <= 0.25:
		return Error
	case left <= 0.5:
		return Warning
	default:
		return Secondary
	}
}

// Score colours a percentage: pass, borderline or fail.
func Score(pct int) color.Color {
	switch {
	case pct >= 80:
		return Success
	case pct >= 50:
		return Accent
	default:
		return Error
	}
}
