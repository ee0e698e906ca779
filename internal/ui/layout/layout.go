// Package layout draws the frame around the active screen: a header with
// the screen title and status, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	compactWidth  = 100
	compactHeight = 30
)

type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool   { return width < compactWidth }
func IsCompactHeight(height int) bool { return height < compactHeight }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a bigger terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("StudyQuiz needs at least %d×%d.\n\nThis terminal is %d×%d.", MinWidth, MinHeight, width, height))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader puts the app name left, title centred and status right.
func RenderHeader(title, status string, width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  StudyQuiz")
	mid := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	inner := max(width-4, 0)
	nw, mw, rw := lipgloss.Width(name), lipgloss.Width(mid), lipgloss.Width(right)
	gapL := max((inner-mw)/2-nw, 1)
	gapR := max(inner-nw-gapL-mw-rw, 1)

	line := name + strings.Repeat(" ", gapL) + mid + strings.Repeat(" ", gapR) + right
	return bar.Width(width).Render(line)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
