package assessment

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/ui/components"
	"github.com/abhisek/assessor/internal/ui/layout"
	"github.com/abhisek/assessor/internal/ui/theme"
)

func (s *AssessmentScreen) View(width, height int) string {
	switch s.mode {
	case modeLoading:
		return centered(width, theme.Hint.Render("Loading questions..."))
	case modeFailed:
		return renderLoadError(width, s.loadErr)
	}

	if s.sess.Catalog().Empty() {
		return centered(width, theme.Subtitle.Render("No questions are available."))
	}

	switch s.mode {
	case modeConfirmReset:
		return centered(width, theme.Title.Render("Clear all answers and start over?")+"\n\n"+
			theme.Hint.Render("Y to clear, N to keep them"))
	case modeCatalyst:
		return s.renderCatalyst(width)
	}
	return s.renderQuestion(width, height)
}

func (s *AssessmentScreen) renderQuestion(width, height int) string {
	var b strings.Builder
	cw := components.ContentWidth(width)

	b.WriteString(s.renderPills(width))
	b.WriteString("\n\n")

	p := s.sess.Progress()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.NewProgressBar(p.Answered, p.Total, p.Percent, cw).View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	q, _ := s.sess.Current()
	counter := fmt.Sprintf("Question %d of %d", s.sess.Cursor()+1, s.sess.Catalog().Len())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(counter)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).Render(q.Prompt)))
	b.WriteString("\n\n")

	compact := layout.IsCompactWidth(width) || layout.IsCompactHeight(height)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.tiles.View(cw, compact)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderNav()))
	b.WriteString("\n\n")

	if s.sess.Locked() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Answered.Render("Submitted. Press Enter to view results or R to start over.")))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.submit.View()))
	}

	if s.status != "" {
		b.WriteString("\n\n")
		style := theme.Status(s.statusErr)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Width(cw).Align(lipgloss.Center).Render(s.status)))
	}
	return b.String()
}

// renderPills shows one pill per section with its answered count, or just
// the active section on narrow terminals.
func (s *AssessmentScreen) renderPills(width int) string {
	progress := s.sess.SectionProgress()

	if layout.IsCompactWidth(width) {
		for i, sp := range progress {
			if sp.Active {
				label := fmt.Sprintf("Section %d/%d  %s  %d/%d", i+1, len(progress), sp.Name, sp.Answered, sp.Total)
				return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.PillActive.Render(label))
			}
		}
		return ""
	}

	pills := make([]string, 0, len(progress))
	for _, sp := range progress {
		label := fmt.Sprintf("%s %d/%d", sp.Name, sp.Answered, sp.Total)
		style := theme.PillIdle
		switch {
		case sp.Active:
			style = theme.PillActive
		case sp.Answered == sp.Total:
			style = theme.PillComplete
		}
		pills = append(pills, components.Pill(label, style))
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(strings.Join(pills, " "))
}

func (s *AssessmentScreen) renderNav() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	on := lipgloss.NewStyle().Foreground(theme.Text)

	prev, next := on, on
	if s.sess.AtStart() || s.sess.Locked() {
		prev = dim
	}
	if s.sess.AtEnd() || s.sess.Locked() {
		next = dim
	}
	return prev.Render("◂ Prev (P)") + "      " + next.Render("Next (N) ▸")
}

func (s *AssessmentScreen) renderCatalyst(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("What is driving this assessment?"))
	b.WriteString("\n\n")
	if len(s.opts.Catalysts) > 0 {
		b.WriteString(s.catalystPicker.View())
	} else {
		b.WriteString("Catalyst: " + s.catalystInput.View())
	}
	return centered(width, b.String())
}

func renderLoadError(width int, err error) string {
	title := "Could not load questions"
	var cfgErr *catalog.ConfigError
	if errors.As(err, &cfgErr) {
		title = "The question catalog is malformed"
	}

	msg := ""
	if err != nil {
		msg = err.Error()
	}
	body := theme.Status(true).Render(title) + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Width(components.ContentWidth(width)).Render(msg) + "\n\n" +
		theme.Hint.Render("Press R to retry")
	return centered(width, body)
}

func centered(width int, content string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "\n"+content)
}
