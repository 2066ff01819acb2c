package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/assessor/internal/router"
	"github.com/abhisek/assessor/internal/scoring"
	"github.com/abhisek/assessor/internal/screen"
	"github.com/abhisek/assessor/internal/screens/results"
	"github.com/abhisek/assessor/internal/session"
	"github.com/abhisek/assessor/internal/ui/components"
	"github.com/abhisek/assessor/internal/ui/layout"
)

// Submitter sends a finalized payload for scoring.
type Submitter interface {
	Submit(ctx context.Context, p scoring.Payload) (*scoring.Result, error)
}

// Loader prepares the session. It runs off the event loop.
type Loader func(ctx context.Context) (*session.Session, error)

// Options wires the screen to its collaborators.
type Options struct {
	Load      Loader
	Submitter Submitter
	Exporter  results.Exporter

	// Catalysts offered before submitting; free text when empty.
	Catalysts []string

	// Timeout bounds loading and each submission. Default: 30s.
	Timeout time.Duration

	// OnResult runs after a result has been applied to the session.
	OnResult func(catalyst string, r *scoring.Result)
	// OnReset runs after the session has been reset.
	OnReset func()

	Logger *slog.Logger
}

type mode int

const (
	modeLoading mode = iota
	modeFailed
	modeAnswering
	modeCatalyst
	modeConfirmReset
)

// AssessmentScreen is the question-by-question answering screen.
type AssessmentScreen struct {
	opts Options
	sess *session.Session
	mode mode

	loadErr error

	tiles          components.ScaleTiles
	catalystPicker components.Picker
	catalystInput  components.TextInput
	submit         components.Button

	catalyst  string
	status    string
	statusErr bool
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)
var _ screen.HeaderStatusProvider = (*AssessmentScreen)(nil)

// New creates an AssessmentScreen. Loading starts in Init.
func New(opts Options) *AssessmentScreen {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &AssessmentScreen{
		opts:   opts,
		submit: components.NewButton("Submit", "Submitting..."),
	}
}

func (s *AssessmentScreen) Init() tea.Cmd {
	return s.load()
}

func (s *AssessmentScreen) Title() string {
	if s.sess != nil {
		if sec, ok := s.sess.CurrentSection(); ok {
			return sec.Name
		}
	}
	return "Assessment"
}

func (s *AssessmentScreen) HeaderStatus() layout.HeaderStatus {
	if s.sess == nil {
		return layout.HeaderStatus{}
	}
	p := s.sess.Progress()
	return layout.HeaderStatus{Answered: p.Answered, Total: p.Total, Locked: s.sess.Locked()}
}

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeLoading:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case modeFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case modeConfirmReset:
		return []layout.KeyHint{
			{Key: "Y", Description: "Clear answers"},
			{Key: "N", Description: "Keep them"},
		}
	case modeCatalyst:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Cancel"},
		}
	}

	if s.sess.Locked() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "View results"},
			{Key: "R", Description: "Start over"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-9", Description: "Answer"},
		{Key: "N/P", Description: "Next/Prev"},
		{Key: "Tab", Description: "Section"},
		{Key: "S", Description: "Submit"},
		{Key: "R", Description: "Reset"},
	}
}

// Session returns the loaded session, or nil while loading.
func (s *AssessmentScreen) Session() *session.Session {
	return s.sess
}

// Status returns the current status line.
func (s *AssessmentScreen) Status() string {
	return s.status
}

// Submitting reports whether a submission is in flight.
func (s *AssessmentScreen) Submitting() bool {
	return s.submit.Busy
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)

	case submitDoneMsg:
		return s.handleSubmitDone(msg)

	case components.OptionPickedMsg:
		if s.mode != modeCatalyst {
			return s, nil
		}
		return s, s.startSubmit(msg.Value)

	case components.TilePickedMsg:
		return s.recordAnswer(msg)

	case router.RevealedMsg:
		if s.sess != nil && s.sess.Locked() {
			s.setStatus("Press V to view the result again or R to start over.")
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and similar messages for the catalyst input.
	if s.mode == modeCatalyst && len(s.opts.Catalysts) == 0 {
		var cmd tea.Cmd
		s.catalystInput, cmd = s.catalystInput.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *AssessmentScreen) load() tea.Cmd {
	s.mode = modeLoading
	s.loadErr = nil
	load, timeout := s.opts.Load, s.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		sess, err := load(ctx)
		return loadedMsg{Session: sess, Err: err}
	}
}

func (s *AssessmentScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.opts.Logger.Error("load assessment", "error", msg.Err)
		s.mode = modeFailed
		s.loadErr = msg.Err
		return s, nil
	}
	s.sess = msg.Session
	s.mode = modeAnswering
	s.refreshTiles()
	return s, nil
}

func (s *AssessmentScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.mode {
	case modeLoading:
		return s, nil

	case modeFailed:
		if key == "r" || key == "R" {
			return s, s.load()
		}
		return s, nil

	case modeConfirmReset:
		switch key {
		case "y", "Y":
			s.doReset()
		case "n", "N", "esc":
			s.mode = modeAnswering
			s.setStatus("Reset cancelled.")
		}
		return s, nil

	case modeCatalyst:
		return s.handleCatalystKey(msg)
	}

	switch key {
	case "n", "pgdown":
		s.navigate(1)
		return s, nil
	case "p", "pgup":
		s.navigate(-1)
		return s, nil
	case "tab", "]":
		s.jumpSection(1)
		return s, nil
	case "shift+tab", "[":
		s.jumpSection(-1)
		return s, nil
	case "s", "S":
		return s, s.beginSubmit()
	case "r", "R":
		if s.sess.Catalog().Empty() {
			return s, nil
		}
		s.mode = modeConfirmReset
		return s, nil
	case "v", "enter":
		if s.sess.Locked() {
			return s, s.showResults()
		}
	}

	var cmd tea.Cmd
	s.tiles, cmd = s.tiles.Update(msg)
	return s, cmd
}

func (s *AssessmentScreen) handleCatalystKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		s.mode = modeAnswering
		s.setStatus("Submission cancelled.")
		return s, nil
	}

	if len(s.opts.Catalysts) > 0 {
		var cmd tea.Cmd
		s.catalystPicker, cmd = s.catalystPicker.Update(msg)
		return s, cmd
	}

	if msg.String() == "enter" {
		v := s.catalystInput.Value()
		if v == "" {
			s.catalystInput.Reject("Enter a catalyst to continue")
			return s, nil
		}
		return s, s.startSubmit(v)
	}

	var cmd tea.Cmd
	s.catalystInput, cmd = s.catalystInput.Update(msg)
	return s, cmd
}

// recordAnswer applies a tile pick to the question it was made for. Picks
// from before a reset or for a question the catalog does not know are
// dropped.
func (s *AssessmentScreen) recordAnswer(msg components.TilePickedMsg) (screen.Screen, tea.Cmd) {
	if s.sess == nil || s.sess.Stale(msg.Gen) {
		return s, nil
	}
	if _, ok := s.sess.Catalog().Question(msg.QuestionID); !ok {
		return s, nil
	}
	if err := s.sess.RecordAnswer(msg.QuestionID, msg.Token); err != nil {
		s.setError(err)
		return s, nil
	}
	s.status = ""
	s.refreshTiles()
	return s, nil
}

func (s *AssessmentScreen) navigate(delta int) {
	if err := s.sess.Navigate(delta); err != nil {
		s.setError(err)
		return
	}
	s.refreshTiles()
}

func (s *AssessmentScreen) jumpSection(step int) {
	sections := s.sess.Catalog().Sections()
	if len(sections) == 0 {
		return
	}
	cur := 0
	if sec, ok := s.sess.CurrentSection(); ok {
		for i, candidate := range sections {
			if candidate.Name == sec.Name {
				cur = i
				break
			}
		}
	}
	target := (cur + step + len(sections)) % len(sections)
	if err := s.sess.JumpToSection(sections[target].Name); err != nil {
		s.setError(err)
		return
	}
	s.refreshTiles()
}

func (s *AssessmentScreen) beginSubmit() tea.Cmd {
	if !s.submit.Enabled() {
		return nil
	}
	if s.sess.Locked() {
		s.setError(session.ErrLocked)
		return nil
	}
	if s.sess.Progress().Answered == 0 {
		s.setErrorText("Answer at least one question before submitting.")
		return nil
	}

	s.mode = modeCatalyst
	if len(s.opts.Catalysts) > 0 {
		s.catalystPicker = components.NewPicker(s.opts.Catalysts)
		return nil
	}
	s.catalystInput = components.NewTextInput("e.g. growth", 64)
	return s.catalystInput.Init()
}

func (s *AssessmentScreen) startSubmit(catalyst string) tea.Cmd {
	s.mode = modeAnswering
	if !s.submit.Enabled() {
		return nil
	}

	payload, err := s.sess.Finalize(catalyst)
	if err != nil {
		s.setError(err)
		return nil
	}
	if len(payload.Skipped) > 0 {
		s.opts.Logger.Warn("answers without a numeric score were left out", "question_ids", payload.Skipped)
	}

	s.submit.Busy = true
	s.setStatus(fmt.Sprintf("Submitting %d answers...", len(payload.Answers)))

	gen := s.sess.Generation()
	submitter, timeout := s.opts.Submitter, s.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := submitter.Submit(ctx, payload)
		return submitDoneMsg{Gen: gen, Catalyst: payload.Catalyst, Result: res, Err: err}
	}
}

func (s *AssessmentScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	s.submit.Busy = false

	if s.sess == nil || s.sess.Stale(msg.Gen) {
		s.opts.Logger.Info("dropping submission result from before reset")
		return s, nil
	}

	switch {
	case errors.Is(msg.Err, scoring.ErrBusy):
		s.setErrorText("A submission is already running.")
		return s, nil
	case msg.Err != nil:
		s.opts.Logger.Error("submit assessment", "error", msg.Err)
		s.setErrorText("Submission failed: " + msg.Err.Error() + ". Your answers are kept; press S to retry.")
		return s, nil
	}

	s.sess.ApplyResult(msg.Result)
	s.catalyst = msg.Catalyst
	if s.opts.OnResult != nil {
		s.opts.OnResult(msg.Catalyst, s.sess.Result())
	}
	s.refreshTiles()
	s.setStatus("Submitted.")
	return s, s.showResults()
}

func (s *AssessmentScreen) showResults() tea.Cmd {
	res := s.sess.Result()
	if res == nil {
		return nil
	}
	next := results.New(res, s.catalyst, s.opts.Exporter, s.opts.Timeout)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *AssessmentScreen) doReset() {
	s.mode = modeAnswering
	if err := s.sess.Reset(true); err != nil {
		s.setError(err)
		return
	}
	s.catalyst = ""
	if s.opts.OnReset != nil {
		s.opts.OnReset()
	}
	s.refreshTiles()
	s.setStatus("Answers cleared.")
}

func (s *AssessmentScreen) refreshTiles() {
	q, ok := s.sess.Current()
	if !ok {
		s.tiles = components.ScaleTiles{}
		return
	}
	chosen, _ := s.sess.Answer(q.ID)
	s.tiles = components.NewScaleTiles(q, chosen)
	s.tiles.Gen = s.sess.Generation()
	s.tiles.Disabled = s.sess.Locked()
}

func (s *AssessmentScreen) setStatus(text string) {
	s.status, s.statusErr = text, false
}

func (s *AssessmentScreen) setErrorText(text string) {
	s.status, s.statusErr = text, true
}

func (s *AssessmentScreen) setError(err error) {
	switch {
	case errors.Is(err, session.ErrLocked):
		s.setErrorText("Already submitted. Press R to start over.")
	case errors.Is(err, session.ErrNoCatalyst):
		s.setErrorText("Choose a catalyst before submitting.")
	case errors.Is(err, session.ErrEmptySubmission):
		s.setErrorText("Nothing to submit: every answer is marked not applicable.")
	default:
		s.setErrorText(err.Error())
	}
}
