package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/ui/theme"
)

// Button is an action control that can be disabled while its action runs.
type Button struct {
	Label     string
	BusyLabel string
	Focused   bool
	Busy      bool
}

// NewButton creates a button. busyLabel replaces the label while Busy.
func NewButton(label, busyLabel string) Button {
	return Button{Label: label, BusyLabel: busyLabel}
}

// Enabled reports whether the button accepts presses.
func (b Button) Enabled() bool {
	return !b.Busy
}

// View renders the button.
func (b Button) View() string {
	if b.Busy {
		label := b.BusyLabel
		if label == "" {
			label = b.Label
		}
		return theme.ButtonInactive.Render(label)
	}
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Foreground(theme.Text).Render(b.Label)
}

// ButtonRow lays buttons out side by side.
func ButtonRow(buttons ...Button) string {
	views := make([]string, 0, len(buttons))
	for _, b := range buttons {
		views = append(views, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
