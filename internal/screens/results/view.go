package results

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/scoring"
	"github.com/abhisek/assessor/internal/ui/components"
	"github.com/abhisek/assessor/internal/ui/theme"
)

func (s *ResultsScreen) View(width, height int) string {
	if s.result == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nNo result yet. Submit the assessment first.")
	}

	footer := s.renderFooter(width)
	bodyHeight := max(height-lipgloss.Height(footer)-1, 1)

	cw := components.ContentWidth(width)
	if width != s.width || height != s.height {
		s.width, s.height = width, height
		s.vp.SetWidth(width)
		s.vp.SetHeight(bodyHeight)
		s.vp.SetContent(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderResult(s.result, s.catalyst, cw)))
	}

	return s.vp.View() + "\n" + footer
}

func (s *ResultsScreen) renderFooter(width int) string {
	var parts []string
	if s.exporter != nil {
		parts = append(parts, s.export.View())
	}
	if s.status != "" {
		style := theme.Status(s.statusErr)
		parts = append(parts, style.Render(s.status))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(parts, "  "))
}

// renderResult lays out every populated section of r at content width cw.
func renderResult(r *scoring.Result, catalyst string, cw int) string {
	var b strings.Builder

	tier := r.OverallTier
	if tier == "" {
		tier = "Unrated"
	}
	headline := theme.Title.Render(tier) + "\n" +
		theme.Subtitle.Render(fmt.Sprintf("Overall score %.1f", r.OverallScore))
	if catalyst != "" {
		headline += "\n" + theme.Hint.Render("Catalyst: "+catalyst)
	}
	b.WriteString(components.Card(lipgloss.PlaceHorizontal(cw-6, lipgloss.Center, headline), cw))
	b.WriteString("\n")

	if len(r.PriorityCategories) > 0 {
		var lines []string
		for i, c := range r.PriorityCategories {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, c))
		}
		b.WriteString(section("Priority areas", strings.Join(lines, "\n"), cw))
	}

	if len(r.CategoryDetails) > 0 {
		b.WriteString(section("Categories", renderDetails(r.CategoryDetails), cw))
	} else if len(r.CategoryScores) > 0 {
		b.WriteString(section("Category scores", renderPairs(r.CategoryScores), cw))
	}

	if len(r.TierDistribution) > 0 {
		b.WriteString(section("Tier distribution", renderPairs(r.TierDistribution), cw))
	}

	if text := r.RecommendationText(); text != "" {
		b.WriteString(section("Recommendations", text, cw))
	}

	return b.String()
}

func section(title, body string, cw int) string {
	return components.Card(theme.Heading.Render(title)+"\n\n"+theme.Body.Width(cw-6).Render(body), cw) + "\n"
}

func renderDetails(details map[string]scoring.CategoryDetail) string {
	names := sortedKeys(details)
	nameWidth := 0
	for _, n := range names {
		nameWidth = max(nameWidth, lipgloss.Width(n))
	}

	var lines []string
	for _, n := range names {
		d := details[n]
		line := fmt.Sprintf("%-*s  %6.1f  %-10s", nameWidth, n, d.Score, d.Tier)
		if d.TotalQuestions > 0 {
			line += fmt.Sprintf("  %d/%d answered", d.QuestionsAnswered, d.TotalQuestions)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderPairs(m map[string]any) string {
	var lines []string
	for _, k := range sortedKeys(m) {
		lines = append(lines, fmt.Sprintf("%s: %s", k, formatValue(m[k])))
	}
	return strings.Join(lines, "\n")
}

// formatValue prints numbers compactly and anything else as-is.
func formatValue(v any) string {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%.1f", n)
	case nil:
		return "-"
	default:
		return fmt.Sprint(n)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
