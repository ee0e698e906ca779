// Package router keeps the stack of open screens. Screens navigate by
// returning the messages below; only the top screen receives input.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquiz/internal/screen"
)

type (
	// PushScreenMsg opens Screen on top of the current one.
	PushScreenMsg struct{ Screen screen.Screen }
	// PopScreenMsg closes the top screen unless it is the last one.
	PopScreenMsg struct{}
	// ReplaceScreenMsg swaps the top screen, e.g. quiz for results.
	ReplaceScreenMsg struct{ Screen screen.Screen }
	// PopToRootMsg returns to the first screen.
	PopToRootMsg struct{}
)

type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) Init() tea.Cmd {
	if top := r.Active(); top != nil {
		return top.Init()
	}
	return nil
}

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.truncate(len(r.stack) - 1)
	}
	return nil
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	top := len(r.stack) - 1
	release(r.stack[top])
	r.stack[top] = s
	return s.Init()
}

func (r *Router) PopToRoot() tea.Cmd {
	r.truncate(1)
	return nil
}

// truncate closes and drops every screen above depth n, topmost first.
func (r *Router) truncate(n int) {
	for i := len(r.stack) - 1; i >= n; i-- {
		release(r.stack[i])
		r.stack[i] = nil
	}
	r.stack = r.stack[:n]
}

func release(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}

// Active is the top screen.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages and hands everything else to the
// top screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopToRootMsg:
		return r.PopToRoot()
	}

	top := r.Active()
	if top == nil {
		return nil
	}
	next, cmd := top.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if top := r.Active(); top != nil {
		return top.View(width, height)
	}
	return ""
}
