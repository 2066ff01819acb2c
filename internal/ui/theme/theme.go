package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is the set of colors every style below is derived from.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

// Indigo is the default palette, tuned for dark terminals.
var Indigo = Palette{
	Primary:   lipgloss.Color("#6366F1"),
	Secondary: lipgloss.Color("#0EA5E9"),
	Accent:    lipgloss.Color("#F59E0B"),
	Success:   lipgloss.Color("#10B981"),
	Error:     lipgloss.Color("#EF4444"),
	Text:      lipgloss.Color("#F1F5F9"),
	TextDim:   lipgloss.Color("#94A3B8"),
	BgCard:    lipgloss.Color("#1E293B"),
	Border:    lipgloss.Color("#334155"),
}

var (
	Primary   = Indigo.Primary
	Secondary = Indigo.Secondary
	Accent    = Indigo.Accent
	Success   = Indigo.Success
	Error     = Indigo.Error
	Text      = Indigo.Text
	TextDim   = Indigo.TextDim
	BgCard    = Indigo.BgCard
	Border    = Indigo.Border
)

var (
	Title    = lipgloss.NewStyle().Foreground(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Heading  = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	Card = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(1, 2)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Answered   = lipgloss.NewStyle().Foreground(Success).Bold(true)

	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)

	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().Foreground(TextDim).Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 2)

	// Section pills.
	PillActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 1)
	PillComplete = lipgloss.NewStyle().Foreground(Success).Padding(0, 1)
	PillIdle     = lipgloss.NewStyle().Foreground(TextDim).Padding(0, 1)
)

// Status styles a one-line status message.
func Status(isErr bool) lipgloss.Style {
	if isErr {
		return lipgloss.NewStyle().Foreground(Error).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(Success)
}

// TileState is how a scale tile relates to the cursor and the saved answer.
type TileState int

const (
	TileIdle TileState = iota
	TileHighlighted
	TileChosen
	TileDisabled
)

// Tile returns the bordered style for one scale option.
func Tile(state TileState) lipgloss.Style {
	fg, border := Text, Border
	switch state {
	case TileHighlighted:
		fg, border = Primary, Primary
	case TileChosen:
		fg, border = Success, Success
	case TileDisabled:
		fg = TextDim
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		MarginRight(1).
		Bold(state == TileHighlighted)
}
