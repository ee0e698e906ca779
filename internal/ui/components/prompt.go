package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// Prompt is a single-line input for file paths and outcome lists.
type Prompt struct {
	input textinput.Model
}

func NewPrompt(placeholder string, limit int) Prompt {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "› "
	if limit > 0 {
		in.CharLimit = limit
	}
	in.Focus()
	return Prompt{input: in}
}

func (p Prompt) Init() tea.Cmd {
	return p.input.Focus()
}

func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// Value is the text with surrounding blanks removed.
func (p Prompt) Value() string {
	return strings.TrimSpace(p.input.Value())
}

func (p Prompt) View() string {
	return p.input.View()
}
