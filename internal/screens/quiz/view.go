package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/play"
	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/theme"
)

func (s *QuizScreen) renderQuestion(width, height int) string {
	card := s.card
	if card.Total == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading question...")
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + s.mode.Label())
	if q := card.Question; q.Category != "" {
		infoLeft += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  ·  %s  ·  %s", q.Category, q.Difficulty))
	}
	b.WriteString(infoLeft)
	b.WriteString("\n")

	barWidth := min(width-4, 60)
	progress := components.NewMeter("", float64(card.Position)/float64(card.Total), barWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, progress.View()))
	b.WriteString("\n")
	if card.Timed {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderClock(barWidth)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(card.Question.Prompt))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	b.WriteString("\n")

	if s.outcome != nil {
		b.WriteString(renderFeedback(width, *s.outcome))
	}
	return b.String()
}

func (s *QuizScreen) renderClock(width int) string {
	limit := s.card.Limit
	if !s.card.Timed || limit <= 0 {
		return ""
	}
	left := float64(s.card.Remaining) / float64(limit)
	bar := components.NewMeter("", left, width-8)
	bar.Fill = theme.Urgency(left)
	clock := lipgloss.NewStyle().Foreground(bar.Fill).Bold(left <= 0.25)
	return bar.View() + "  " + clock.Render(formatClock(s.card.Remaining))
}

func renderFeedback(width int, out play.Outcome) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case out.Correct:
		return center.Foreground(theme.Success).Bold(true).Render("Correct!")
	case out.TimedOut:
		return center.Foreground(theme.Error).Bold(true).Render("Time's up!") + "\n" +
			center.Foreground(theme.TextDim).Render("Answer: "+out.CorrectAnswer)
	default:
		return center.Foreground(theme.Error).Bold(true).Render("Not quite") + "\n" +
			center.Foreground(theme.TextDim).Render("Answer: "+out.CorrectAnswer)
	}
}

func renderDone(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Quiz finished. Press any key to go back.")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
