package results

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/history"
	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/theme"
)

func (s *ResultsScreen) render(width int) string {
	a := s.result.Attempt
	sum := s.result.Summary
	cmp := s.result.Comparison
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(s.title))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · attempt %d", a.Mode.Label(), a.AttemptNumber)))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.Score(a.Percentage)).Bold(true).
		Render(fmt.Sprintf("%d / %d   %d%%", a.Score, a.TotalQuestions, a.Percentage)))
	b.WriteString("\n")
	if cmp.HasDelta {
		style := center.Foreground(theme.TextDim)
		switch {
		case cmp.Delta > 0:
			style = center.Foreground(theme.Success).Bold(true)
		case cmp.Delta < 0:
			style = center.Foreground(theme.Error)
		}
		b.WriteString(style.Render(fmt.Sprintf("%s vs last attempt (%d%%)",
			history.FormatDelta(cmp.Delta), cmp.Previous.Percentage)))
		b.WriteString("\n")
	}
	stats := fmt.Sprintf("avg %.1fs per answer", a.AverageResponse())
	if sum.TimedOut > 0 {
		stats += fmt.Sprintf("   %d timed out", sum.TimedOut)
	}
	b.WriteString(center.Foreground(theme.TextDim).Render(stats))
	b.WriteString("\n\n")

	barWidth := min(width-8, 50)
	for _, c := range sum.Categories {
		label := fmt.Sprintf("%-14s %d/%d", truncate(c.Category, 14), c.Correct, c.Attempted)
		bar := components.NewMeter(label, c.Accuracy(), barWidth)
		bar.Fill = theme.Score(int(c.Accuracy() * 100))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
	}
	if len(sum.Categories) > 0 {
		b.WriteString("\n")
	}

	if len(a.WrongAnswers) > 0 {
		b.WriteString(center.Foreground(theme.TextDim).Render("Review"))
		b.WriteString("\n")
		for _, w := range a.WrongAnswers {
			given := w.UserAnswer
			if w.TimedOut() {
				given = "(time ran out)"
			}
			line := fmt.Sprintf("%s  →  %s  (you: %s)", truncate(w.QuestionText, 40), w.CorrectAnswer, given)
			b.WriteString(center.Foreground(theme.Text).Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if block := s.renderCoaching(width); block != "" {
		b.WriteString(block)
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}

func (s *ResultsScreen) renderCoaching(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.coaching:
		return center.Foreground(theme.TextDim).Italic(true).Render("Your coach is reading your answers...")
	case s.coachErr != nil:
		return center.Foreground(theme.TextDim).Render("Coaching unavailable: " + s.coachErr.Error())
	case s.report == nil:
		return ""
	}

	r := s.report
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(r.Headline))
	for _, x := range r.Strengths {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Success).Render("✓ "+x))
	}
	for _, x := range r.Focus {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Render("• "+x))
	}
	for _, x := range r.Actions {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render("→ "+x))
	}
	card := components.ArcadeCard(strings.Join(lines, "\n"), min(width-4, 64))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
