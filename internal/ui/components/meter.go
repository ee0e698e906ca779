package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/theme"
)

const minMeterCells = 4

// Meter is a one-line bar for quiz progress, countdowns and per-category
// accuracy. Width includes the label and the optional percentage.
type Meter struct {
	Label       string
	Fraction    float64
	Width       int
	Fill        color.Color
	ShowPercent bool
}

func NewMeter(label string, fraction float64, width int) Meter {
	return Meter{Label: label, Fraction: fraction, Width: width, Fill: theme.Secondary}
}

func (m Meter) View() string {
	var b strings.Builder
	if m.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(m.Label))
		b.WriteString("  ")
	}

	pct := ""
	if m.ShowPercent {
		pct = fmt.Sprintf("  %3d%%", int(m.clamped()*100+0.5))
	}

	cells := max(m.Width-lipgloss.Width(b.String())-len(pct), minMeterCells)
	filled := int(float64(cells)*m.clamped() + 0.5)

	b.WriteString(lipgloss.NewStyle().Background(m.Fill).Render(strings.Repeat(" ", filled)))
	b.WriteString(lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", cells-filled)))
	if pct != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(pct))
	}
	return b.String()
}

func (m Meter) clamped() float64 {
	return min(max(m.Fraction, 0), 1)
}
