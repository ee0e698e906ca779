package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/theme"
)

// ContentWidth is the inner width shared by every box on the home screen,
// so stacked boxes line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame centres content inside a double border filling width×height.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard boxes a block of text, such as the results summary.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(content)
}

var (
	buttonBase = lipgloss.NewStyle().
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	buttonIdle = buttonBase.
			Foreground(theme.Text).
			BorderForeground(theme.Border)
	buttonHot = buttonBase.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow)
)

// ArcadeButton draws one home-menu button; the selected one is lit.
func ArcadeButton(label string, selected bool, width int) string {
	if selected {
		return buttonHot.Width(width).Render("▸ " + label)
	}
	return buttonIdle.Width(width).Render(label)
}
