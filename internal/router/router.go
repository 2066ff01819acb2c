package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/assessor/internal/screen"
	"github.com/abhisek/assessor/internal/ui/layout"
)

// PushScreenMsg asks the router to show Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg asks the router to return to the previous screen.
type PopScreenMsg struct{}

// RevealedMsg is sent to a screen when the screen above it is popped.
// From is the title of the popped screen.
type RevealedMsg struct {
	From string
}

// Chrome is what the frame around the active screen shows.
type Chrome struct {
	Title  string
	Status layout.HeaderStatus
	Hints  []layout.KeyHint
}

var defaultHints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}

// Router is a stack of screens. The root screen is never popped.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Push shows s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop drops the top screen and notifies the one underneath. It does nothing
// on the root screen.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	popped := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	from := popped.Title()
	return func() tea.Msg { return RevealedMsg{From: from} }
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

// Chrome asks the active screen for its title and, when it provides them,
// its header status and key hints.
func (r *Router) Chrome() Chrome {
	c := Chrome{Hints: defaultHints}
	active := r.Active()
	if active == nil {
		return c
	}
	c.Title = active.Title()
	if p, ok := active.(screen.HeaderStatusProvider); ok {
		c.Status = p.HeaderStatus()
	}
	if p, ok := active.(screen.KeyHintProvider); ok {
		c.Hints = p.KeyHints()
	}
	return c
}

// Update handles navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	next, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
