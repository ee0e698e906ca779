package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/theme"
)

type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. The cursor skips disabled items and
// wraps at both ends. Digits 1-9 pick an item directly.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// move steps the cursor by dir to the next enabled item.
func (m *Menu) move(dir int) {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((m.Selected+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	if it := m.Items[i]; !it.Disabled && it.Action != nil {
		return it.Action()
	}
	return nil
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch k := key.String(); k {
	case "up", "k", "shift+tab":
		m.move(-1)
	case "down", "j", "tab":
		m.move(1)
	case "enter", "space":
		return m, m.activate(m.Selected)
	default:
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(m.Items) && !m.Items[n-1].Disabled {
			m.Selected = n - 1
			return m, m.activate(n - 1)
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, it := range m.Items {
		switch {
		case it.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("    " + it.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + it.Label))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + it.Label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
