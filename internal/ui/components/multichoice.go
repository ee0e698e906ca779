package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/theme"
)

// MultiChoice is a single-shot option selector. Once Locked it ignores
// input and colours the options to show the outcome.
type MultiChoice struct {
	Options []string
	Cursor  int

	Locked        bool
	Chosen        string
	CorrectAnswer string
	RevealCorrect bool
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options}
}

// Update moves the cursor. It returns the picked option and true when
// the user commits with enter or an option's letter or number.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, string, bool) {
	if m.Locked || len(m.Options) == 0 {
		return m, "", false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, "", false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter":
		return m, m.Options[m.Cursor], true
	default:
		if i, ok := optionIndex(key, len(m.Options)); ok {
			m.Cursor = i
			return m, m.Options[i], true
		}
	}
	return m, "", false
}

// Lock freezes the selector with the outcome of a pick. An empty chosen
// means the question ran out of time.
func (m *MultiChoice) Lock(chosen, correct string, reveal bool) {
	m.Locked = true
	m.Chosen = chosen
	m.CorrectAnswer = correct
	m.RevealCorrect = reveal
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, optionLabel(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Locked && opt == m.CorrectAnswer && (m.RevealCorrect || opt == m.Chosen):
			style = theme.Correct
		case m.Locked && opt == m.Chosen:
			style = theme.Incorrect
		case m.Locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func optionLabel(i int) string {
	return string(rune('A' + i))
}

// optionIndex maps "a".."z" or "1".."9" onto an option.
func optionIndex(key string, n int) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	var i int
	switch {
	case c >= 'a' && c <= 'z':
		i = int(c - 'a')
	case c >= 'A' && c <= 'Z':
		i = int(c - 'A')
	case c >= '1' && c <= '9':
		i = int(c - '1')
	default:
		return 0, false
	}
	return i, i < n
}
