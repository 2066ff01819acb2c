package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/catalog"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuestion() catalog.Question {
	return catalog.Question{ID: "Q1", Prompt: "Do you track cash flow?", Scale: testScale()}
}

func testScale() []catalog.ScaleOption {
	return []catalog.ScaleOption{
		{Token: "1", Label: "Low"},
		{Token: "2", Label: "Medium"},
		{Token: "3", Label: "High"},
		{Token: "N/A", Label: "Not applicable"},
	}
}

func picked(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a pick command")
	}
	msg, ok := cmd().(TilePickedMsg)
	if !ok {
		t.Fatalf("expected TilePickedMsg, got %T", cmd())
	}
	return msg.Token
}

func TestScaleTiles_HighlightsChosen(t *testing.T) {
	tiles := NewScaleTiles(testQuestion(), "3")
	if tiles.Highlight != 2 {
		t.Errorf("Highlight = %d, want 2", tiles.Highlight)
	}
}

func TestScaleTiles_DigitShortcut(t *testing.T) {
	tiles := NewScaleTiles(testQuestion(), "")
	tiles, cmd := tiles.Update(keyPress('4'))
	if got := picked(t, cmd); got != "N/A" {
		t.Errorf("picked %q, want N/A", got)
	}
	if tiles.Highlight != 3 {
		t.Errorf("Highlight = %d, want 3", tiles.Highlight)
	}
}

func TestScaleTiles_DigitOutOfRange(t *testing.T) {
	tiles := NewScaleTiles(testQuestion(), "")
	_, cmd := tiles.Update(keyPress('7'))
	if cmd != nil {
		t.Error("expected no pick for a digit past the scale")
	}
}

func TestScaleTiles_ArrowsThenEnter(t *testing.T) {
	tiles := NewScaleTiles(testQuestion(), "")
	tiles, _ = tiles.Update(specialKey(tea.KeyRight))
	tiles, _ = tiles.Update(specialKey(tea.KeyRight))
	tiles, _ = tiles.Update(specialKey(tea.KeyLeft))
	_, cmd := tiles.Update(specialKey(tea.KeyEnter))
	if got := picked(t, cmd); got != "2" {
		t.Errorf("picked %q, want 2", got)
	}
}

func TestScaleTiles_ClampsAtEdges(t *testing.T) {
	tiles := NewScaleTiles(testQuestion(), "")
	tiles, _ = tiles.Update(specialKey(tea.KeyLeft))
	if tiles.Highlight != 0 {
		t.Errorf("Highlight = %d, want 0", tiles.Highlight)
	}
	for range 10 {
		tiles, _ = tiles.Update(specialKey(tea.KeyRight))
	}
	if tiles.Highlight != 3 {
		t.Errorf("Highlight = %d, want 3", tiles.Highlight)
	}
}

func TestScaleTiles_Disabled(t *testing.T) {
	tiles := NewScaleTiles(testQuestion(), "")
	tiles.Disabled = true
	_, cmd := tiles.Update(keyPress('1'))
	if cmd != nil {
		t.Error("disabled tiles must not pick")
	}
}

func TestScaleTiles_ViewShowsLabelsInOrder(t *testing.T) {
	view := NewScaleTiles(testQuestion(), "2").View(200, false)
	low := strings.Index(view, "Low")
	high := strings.Index(view, "High")
	if low < 0 || high < 0 || low > high {
		t.Errorf("labels out of order in %q", view)
	}
	if !strings.Contains(view, "✓") {
		t.Error("expected chosen tile to be marked")
	}
}

func TestScaleTiles_CompactViewOneLinePerTile(t *testing.T) {
	view := NewScaleTiles(testQuestion(), "").View(40, true)
	if got := lipgloss.Height(view); got != 4 {
		t.Errorf("compact height = %d, want 4", got)
	}
}

func TestScaleTiles_PickNamesQuestion(t *testing.T) {
	tiles := NewScaleTiles(testQuestion(), "")
	tiles.Gen = 3

	_, cmd := tiles.Update(keyPress('2'))
	if cmd == nil {
		t.Fatal("expected a pick command")
	}
	msg := cmd().(TilePickedMsg)
	if msg.QuestionID != "Q1" || msg.Token != "2" || msg.Gen != 3 {
		t.Errorf("picked %+v, want Q1/2 in generation 3", msg)
	}
}

func TestPicker_WrapsAndPicks(t *testing.T) {
	p := NewPicker([]string{"growth", "funding", "succession"})

	p, _ = p.Update(specialKey(tea.KeyUp))
	if p.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 after wrapping up", p.Cursor)
	}
	p, _ = p.Update(specialKey(tea.KeyDown))
	if p.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 after wrapping down", p.Cursor)
	}

	_, cmd := p.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a pick on enter")
	}
	if got := cmd().(OptionPickedMsg); got.Value != "growth" || got.Index != 0 {
		t.Errorf("picked %+v, want growth", got)
	}

	p, cmd = p.Update(keyPress('2'))
	if cmd == nil || p.Cursor != 1 {
		t.Fatalf("digit 2 should pick funding, cursor %d", p.Cursor)
	}
	if got := cmd().(OptionPickedMsg); got.Value != "funding" {
		t.Errorf("picked %q, want funding", got.Value)
	}

	if _, cmd := p.Update(keyPress('9')); cmd != nil {
		t.Error("out of range digit should not pick")
	}
}

func TestPicker_View(t *testing.T) {
	view := NewPicker([]string{"growth", "funding"}).View()
	if !strings.Contains(view, "▸ 1. growth") || !strings.Contains(view, "2. funding") {
		t.Errorf("unexpected picker view %q", view)
	}
}

func TestProgressBar(t *testing.T) {
	view := NewProgressBar(1, 2, 50, 40).View()
	if !strings.Contains(view, "1/2") || !strings.Contains(view, "50%") {
		t.Errorf("unexpected progress view %q", view)
	}
	if got := lipgloss.Width(view); got != 40 {
		t.Errorf("width = %d, want 40", got)
	}
}

func TestProgressBar_EmptyCatalog(t *testing.T) {
	view := NewProgressBar(0, 0, 0, 30).View()
	if !strings.Contains(view, "0/0") {
		t.Errorf("unexpected progress view %q", view)
	}
}

func TestButton(t *testing.T) {
	b := NewButton("Submit", "Submitting...")
	if !b.Enabled() {
		t.Error("new button should be enabled")
	}
	b.Busy = true
	if b.Enabled() {
		t.Error("busy button should be disabled")
	}
	if !strings.Contains(b.View(), "Submitting...") {
		t.Errorf("busy view = %q", b.View())
	}
}

func TestTextInput_RejectClearsOnEdit(t *testing.T) {
	ti := NewTextInput("catalyst", 40)
	ti.Reject("required")
	if !strings.Contains(ti.View(), "required") {
		t.Error("expected validation message")
	}
	ti, _ = ti.Update(keyPress('a'))
	if strings.Contains(ti.View(), "required") {
		t.Error("validation message should clear on edit")
	}
	if ti.Value() != "a" {
		t.Errorf("Value = %q, want a", ti.Value())
	}
}
