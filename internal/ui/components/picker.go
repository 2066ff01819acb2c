package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/assessor/internal/ui/theme"
)

// OptionPickedMsg is emitted when the user confirms a Picker option.
type OptionPickedMsg struct {
	Index int
	Value string
}

// Picker is a vertical list of string options. Up and down wrap; digits
// 1-9 pick directly.
type Picker struct {
	Options []string
	Cursor  int
}

func NewPicker(options []string) Picker {
	return Picker{Options: options}
}

func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(p.Options) == 0 {
		return p, nil
	}

	n := len(p.Options)
	switch key := kmsg.String(); key {
	case "up", "k":
		p.Cursor = (p.Cursor - 1 + n) % n
	case "down", "j":
		p.Cursor = (p.Cursor + 1) % n
	case "enter", "space":
		return p, p.pick(p.Cursor)
	default:
		if d, err := strconv.Atoi(key); err == nil && d >= 1 && d <= n {
			p.Cursor = d - 1
			return p, p.pick(p.Cursor)
		}
	}
	return p, nil
}

func (p Picker) pick(i int) tea.Cmd {
	picked := OptionPickedMsg{Index: i, Value: p.Options[i]}
	return func() tea.Msg { return picked }
}

func (p Picker) View() string {
	var b strings.Builder
	for i, opt := range p.Options {
		label := strconv.Itoa(i+1) + ". " + opt
		if i == p.Cursor {
			b.WriteString(theme.Selected.Render("  ▸ " + label))
		} else {
			b.WriteString(theme.Unselected.Render("    " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
