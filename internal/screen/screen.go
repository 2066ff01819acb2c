package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/assessor/internal/ui/layout"
)

// Screen is one page of the TUI. The frame draws the header and footer;
// View only renders the area between them.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// HeaderStatusProvider puts answer progress in the header.
type HeaderStatusProvider interface {
	HeaderStatus() layout.HeaderStatus
}
