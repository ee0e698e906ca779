package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquiz/internal/screen"
)

type page struct {
	name    string
	started int
	got     []tea.Msg
}

func (p *page) Init() tea.Cmd {
	p.started++
	return nil
}

func (p *page) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	p.got = append(p.got, msg)
	return p, nil
}

// closingPage records when the router lets it go.
type closingPage struct {
	page
	closed int
}

func (p *closingPage) Close() { p.closed++ }

func (p *page) View(int, int) string { return "<" + p.name + ">" }
func (p *page) Title() string        { return p.name }

func titles(r *Router) []string {
	var out []string
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func TestRouter_Navigation(t *testing.T) {
	cases := []struct {
		name string
		msgs []tea.Msg
		want []string
	}{
		{"push", []tea.Msg{PushScreenMsg{&page{name: "decks"}}}, []string{"home", "decks"}},
		{"push then pop", []tea.Msg{PushScreenMsg{&page{name: "decks"}}, PopScreenMsg{}}, []string{"home"}},
		{"pop keeps the root", []tea.Msg{PopScreenMsg{}, PopScreenMsg{}}, []string{"home"}},
		{"replace top", []tea.Msg{
			PushScreenMsg{&page{name: "quiz"}},
			ReplaceScreenMsg{&page{name: "results"}},
		}, []string{"home", "results"}},
		{"replace root", []tea.Msg{ReplaceScreenMsg{&page{name: "welcome"}}}, []string{"welcome"}},
		{"pop to root", []tea.Msg{
			PushScreenMsg{&page{name: "decks"}},
			PushScreenMsg{&page{name: "quiz"}},
			PopToRootMsg{},
		}, []string{"home"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&page{name: "home"})
			for _, m := range tc.msgs {
				r.Update(m)
			}
			assert.Equal(t, tc.want, titles(r))
			assert.Equal(t, len(tc.want), r.Depth())
			assert.Equal(t, tc.want[len(tc.want)-1], r.Active().Title())
		})
	}
}

func TestRouter_InitsScreensAsTheyOpen(t *testing.T) {
	home := &page{name: "home"}
	r := New(home)
	r.Init()
	assert.Equal(t, 1, home.started)

	quiz := &page{name: "quiz"}
	r.Push(quiz)
	results := &page{name: "results"}
	r.Replace(results)

	assert.Equal(t, 1, quiz.started)
	assert.Equal(t, 1, results.started)

	r.Pop()
	assert.Equal(t, 1, home.started, "uncovering a screen does not re-init it")
}

func TestRouter_InputGoesToTopScreen(t *testing.T) {
	home := &page{name: "home"}
	quiz := &page{name: "quiz"}
	r := New(home)
	r.Push(quiz)

	key := tea.KeyPressMsg{Code: 'a', Text: "a"}
	r.Update(key)

	require.Len(t, quiz.got, 1)
	assert.Equal(t, key, quiz.got[0])
	assert.Empty(t, home.got)
	assert.Equal(t, "<quiz>", r.View(80, 24))
}

func TestRouter_NavigationMessagesAreNotForwarded(t *testing.T) {
	home := &page{name: "home"}
	r := New(home)
	r.Update(PopScreenMsg{})
	r.Update(PopToRootMsg{})
	assert.Empty(t, home.got)
}

func TestRouter_ClosesScreensLeavingTheStack(t *testing.T) {
	home := &closingPage{page: page{name: "home"}}
	modes := &closingPage{page: page{name: "modes"}}
	quiz := &closingPage{page: page{name: "quiz"}}
	results := &closingPage{page: page{name: "results"}}

	r := New(home)
	r.Push(modes)
	r.Push(quiz)
	assert.Zero(t, modes.closed, "covered screens stay open")

	r.Replace(results)
	assert.Equal(t, 1, quiz.closed)

	r.Update(PopToRootMsg{})
	assert.Equal(t, 1, results.closed)
	assert.Equal(t, 1, modes.closed)

	r.Pop()
	assert.Zero(t, home.closed, "the root is never closed")
}
