package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/ui/theme"
)

// ContentWidth returns the inner width used for cards so stacked boxes
// align.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 96)
}

// Card wraps content in a rounded-border box at content width cw.
func Card(content string, cw int) string {
	return theme.Card.Width(cw - 2).Render(content)
}

// Pill renders a compact inline label.
func Pill(label string, style lipgloss.Style) string {
	return style.Render(label)
}
