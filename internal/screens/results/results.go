package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/assessor/internal/scoring"
	"github.com/abhisek/assessor/internal/screen"
	"github.com/abhisek/assessor/internal/ui/components"
	"github.com/abhisek/assessor/internal/ui/layout"
)

// Exporter turns a result into a delivered document.
type Exporter interface {
	Export(ctx context.Context, result *scoring.Result, catalyst string) (*scoring.ExportedFile, error)
}

// exportDoneMsg carries the outcome of an export request.
type exportDoneMsg struct {
	File *scoring.ExportedFile
	Err  error
}

// ResultsScreen shows a scoring result and offers export.
type ResultsScreen struct {
	result   *scoring.Result
	catalyst string
	exporter Exporter
	timeout  time.Duration

	export    components.Button
	status    string
	statusErr bool

	vp     viewport.Model
	width  int
	height int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen. A nil exporter hides export.
func New(result *scoring.Result, catalyst string, exporter Exporter, timeout time.Duration) *ResultsScreen {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ResultsScreen{
		result:   result,
		catalyst: catalyst,
		exporter: exporter,
		timeout:  timeout,
		export:   components.NewButton("Export PDF", "Exporting..."),
		vp:       viewport.New(),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
	if s.exporter != nil && s.export.Enabled() {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Export"})
	}
	return append(hints,
		layout.KeyHint{Key: "Esc", Description: "Back"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

// Exporting reports whether an export is in flight.
func (s *ResultsScreen) Exporting() bool {
	return s.export.Busy
}

// Status returns the current status line.
func (s *ResultsScreen) Status() string {
	return s.status
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		return s.handleExportDone(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "e", "E":
			return s, s.startExport()
		}
	}

	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) startExport() tea.Cmd {
	if s.exporter == nil || !s.export.Enabled() {
		return nil
	}
	s.export.Busy = true
	s.status, s.statusErr = "Exporting...", false

	exporter, result, catalyst, timeout := s.exporter, s.result, s.catalyst, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		f, err := exporter.Export(ctx, result, catalyst)
		return exportDoneMsg{File: f, Err: err}
	}
}

func (s *ResultsScreen) handleExportDone(msg exportDoneMsg) (screen.Screen, tea.Cmd) {
	s.export.Busy = false

	var stateErr *scoring.StateError
	switch {
	case errors.As(msg.Err, &stateErr):
		s.status, s.statusErr = stateErr.Reason, true
	case errors.Is(msg.Err, scoring.ErrBusy):
		s.status, s.statusErr = "An export is already running.", true
	case msg.Err != nil:
		s.status, s.statusErr = "Export failed: "+msg.Err.Error(), true
	case msg.File != nil:
		s.status, s.statusErr = savedMessage(msg.File), false
	}
	return s, nil
}

func savedMessage(f *scoring.ExportedFile) string {
	if f.Pages > 0 {
		return fmt.Sprintf("Saved %s (%d pages)", f.Path, f.Pages)
	}
	return fmt.Sprintf("Saved %s", f.Path)
}
