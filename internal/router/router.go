// Package router keeps the stack of TUI screens: home at the bottom,
// topic lists and sessions pushed on top of it.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// ReplaceScreenMsg swaps the active screen, e.g. a finished session for
// its summary, so going back skips the finished session.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg goes back one screen.
type PopScreenMsg struct{}

// HomeMsg drops every screen above the root.
type HomeMsg struct{}

// Router is a stack of screens; the last element is visible.
type Router struct {
	stack []screen.Screen
}

// New returns a router whose root is home.
func New(home screen.Screen) *Router {
	return &Router{stack: []screen.Screen{home}}
}

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Replace swaps the top screen. Replacing the root is allowed.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Pop goes back one screen and re-inits the revealed one so it reloads
// progress. The root is never popped.
func (r *Router) Pop() tea.Cmd {
	return r.unwind(len(r.stack) - 1)
}

// Home unwinds to the root screen.
func (r *Router) Home() tea.Cmd {
	return r.unwind(1)
}

func (r *Router) unwind(depth int) tea.Cmd {
	if depth < 1 || depth >= len(r.stack) {
		return nil
	}
	clear(r.stack[depth:])
	r.stack = r.stack[:depth]
	return r.Active().Init()
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update handles navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case HomeMsg:
		return r.Home()
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
