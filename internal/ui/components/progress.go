package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/ui/theme"
)

// ProgressBar shows how many questions have been answered.
type ProgressBar struct {
	Answered int
	Total    int
	Percent  int
	Width    int
}

// NewProgressBar creates a progress bar for answered of total, with percent
// already rounded by the caller.
func NewProgressBar(answered, total, percent, width int) ProgressBar {
	return ProgressBar{Answered: answered, Total: total, Percent: percent, Width: width}
}

// View renders the bar followed by "answered/total  pct%".
func (p ProgressBar) View() string {
	suffix := fmt.Sprintf("  %d/%d  %d%%", p.Answered, p.Total, p.Percent)

	barWidth := max(p.Width-lipgloss.Width(suffix), 4)
	filled := 0
	if p.Total > 0 {
		filled = min(barWidth*p.Answered/p.Total, barWidth)
	}

	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}
