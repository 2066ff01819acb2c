package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/ui/theme"
)

// TilePickedMsg is emitted when the user picks a tile. It names the question
// and session generation the tiles were built for, since the cursor may move
// before the message is delivered.
type TilePickedMsg struct {
	QuestionID string
	Token      string
	Gen        uint64
}

// ScaleTiles renders one question's scale as a row of selectable tiles.
type ScaleTiles struct {
	QuestionID string
	// Gen is the session generation the tiles were built in.
	Gen       uint64
	Options   []catalog.ScaleOption
	Highlight int
	// Chosen is the token currently recorded for the question, if any.
	Chosen string
	// Disabled tiles render dimmed and ignore input.
	Disabled bool
}

// NewScaleTiles creates tiles for q's scale, highlighting the chosen token
// when there is one.
func NewScaleTiles(q catalog.Question, chosen string) ScaleTiles {
	t := ScaleTiles{QuestionID: q.ID, Options: q.Scale, Chosen: chosen}
	options := q.Scale
	for i, o := range options {
		if o.Token == chosen {
			t.Highlight = i
			break
		}
	}
	return t
}

// Update moves the highlight with arrow keys and picks with enter or a
// 1-9 shortcut.
func (t ScaleTiles) Update(msg tea.Msg) (ScaleTiles, tea.Cmd) {
	if t.Disabled || len(t.Options) == 0 {
		return t, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	switch key := kmsg.String(); key {
	case "left", "h", "up", "k":
		if t.Highlight > 0 {
			t.Highlight--
		}
	case "right", "l", "down", "j":
		if t.Highlight < len(t.Options)-1 {
			t.Highlight++
		}
	case "enter", "space":
		return t, t.pick(t.Highlight)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(t.Options) && n <= 9 {
			t.Highlight = n - 1
			return t, t.pick(n - 1)
		}
	}
	return t, nil
}

func (t ScaleTiles) pick(i int) tea.Cmd {
	picked := TilePickedMsg{QuestionID: t.QuestionID, Token: t.Options[i].Token, Gen: t.Gen}
	return func() tea.Msg { return picked }
}

// View renders the tiles, one per line when compact and side by side
// otherwise.
func (t ScaleTiles) View(width int, compact bool) string {
	tiles := make([]string, 0, len(t.Options))
	for i, o := range t.Options {
		tiles = append(tiles, t.renderTile(i, o, compact))
	}
	if compact {
		return strings.Join(tiles, "\n")
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
	if lipgloss.Width(row) > width {
		return strings.Join(tiles, "\n")
	}
	return row
}

func (t ScaleTiles) renderTile(i int, o catalog.ScaleOption, compact bool) string {
	label := fmt.Sprintf("%d  %s", i+1, o.Label)
	if o.Label == "" || o.Label == o.Token {
		label = fmt.Sprintf("%d  %s", i+1, o.Token)
	}
	if o.Token == t.Chosen {
		label += " ✓"
	}

	state := theme.TileIdle
	switch {
	case t.Disabled:
		state = theme.TileDisabled
	case i == t.Highlight:
		state = theme.TileHighlighted
	case o.Token == t.Chosen:
		state = theme.TileChosen
	}

	if compact {
		prefix := "  "
		if state == theme.TileHighlighted {
			prefix = "▸ "
		}
		return lipgloss.NewStyle().Foreground(theme.Tile(state).GetForeground()).Render(prefix + label)
	}
	return theme.Tile(state).Render(label)
}
