package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderStatus is the right-hand side of the header. A zero Total hides
// the progress counter.
type HeaderStatus struct {
	Answered int
	Total    int
	Locked   bool
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Terminal too small\n\nThe questionnaire needs %dx%d.\nCurrent size: %dx%d",
			MinWidth, MinHeight, width, height))
}

// bar draws content inside the bordered strip used by header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// inner is the usable text width inside a bar.
func inner(width int) int {
	return max(width-4, 0)
}

// RenderHeader shows the app name, the screen title centered, and answer
// progress on the right. Wide terminals also get the percentage.
func RenderHeader(title string, status HeaderStatus, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Assessor")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := renderStatus(status, !IsCompactWidth(width))

	w := inner(width)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max((w-cw)/2-lw, 1)
	gapR := max(w-lw-gapL-cw-rw, 1)

	return bar(left+strings.Repeat(" ", gapL)+center+strings.Repeat(" ", gapR)+right, width)
}

func renderStatus(s HeaderStatus, withPercent bool) string {
	var parts []string
	if s.Total > 0 {
		text := fmt.Sprintf("%d/%d answered", s.Answered, s.Total)
		if withPercent {
			text += fmt.Sprintf(" (%d%%)", s.Answered*100/s.Total)
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Render(text))
	}
	if s.Locked {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Render("submitted"))
	}
	return strings.Join(parts, "   ")
}

// RenderFooter lists key hints in order and drops the ones that do not fit.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	const sep = "   "
	budget := inner(width) - 2
	line := ""
	for _, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		next := part
		if line != "" {
			next = line + sep + part
		}
		if lipgloss.Width(next) > budget {
			break
		}
		line = next
	}
	return bar("  "+line, width)
}

// RenderFrame stacks header, content and footer, padding content to the
// remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
