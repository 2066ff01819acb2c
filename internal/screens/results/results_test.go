package results

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/assessor/internal/scoring"
)

type fakeExporter struct {
	calls    int
	catalyst string
	file     *scoring.ExportedFile
	err      error
}

func (f *fakeExporter) Export(_ context.Context, _ *scoring.Result, catalyst string) (*scoring.ExportedFile, error) {
	f.calls++
	f.catalyst = catalyst
	return f.file, f.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testResult() *scoring.Result {
	return &scoring.Result{
		OverallTier:        "Developing",
		OverallScore:       2.5,
		PriorityCategories: []string{"Finance", "Marketing"},
		CategoryScores:     map[string]any{"Finance": 1.5, "Marketing": float64(3)},
		TierDistribution:   map[string]any{"Developing": float64(2)},
		Recommendations:    []string{"Hire a CFO.", "Track churn."},
	}
}

func TestResultsScreen_Title(t *testing.T) {
	s := New(testResult(), "growth", nil, 0)
	if s.Title() != "Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Results")
	}
}

func TestResultsScreen_View(t *testing.T) {
	s := New(testResult(), "growth", nil, 0)
	view := s.View(100, 60)

	for _, want := range []string{"Developing", "2.5", "1. Finance", "2. Marketing", "Finance: 1.5", "Marketing: 3", "Hire a CFO.", "Track churn.", "growth"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestResultsScreen_CategoryDetailsPreferred(t *testing.T) {
	r := testResult()
	r.CategoryDetails = map[string]scoring.CategoryDetail{
		"Finance": {Score: 1.5, Tier: "Emerging", QuestionsAnswered: 2, TotalQuestions: 3},
	}
	view := New(r, "", nil, 0).View(100, 60)
	if !strings.Contains(view, "2/3 answered") {
		t.Error("expected category details")
	}
	if strings.Contains(view, "Category scores") {
		t.Error("category scores should give way to details")
	}
}

func TestResultsScreen_EmptyResult(t *testing.T) {
	view := New(&scoring.Result{}, "", nil, 0).View(80, 24)
	if !strings.Contains(view, "Unrated") {
		t.Errorf("expected placeholder tier, got %q", view)
	}
}

func TestResultsScreen_NilResult(t *testing.T) {
	view := New(nil, "", nil, 0).View(80, 24)
	if !strings.Contains(view, "Submit the assessment first") {
		t.Errorf("unexpected view %q", view)
	}
}

func TestResultsScreen_ExportSuccess(t *testing.T) {
	exp := &fakeExporter{file: &scoring.ExportedFile{Path: "/tmp/assessment-results-2026-10-18.pdf", Pages: 3}}
	s := New(testResult(), "growth", exp, time.Second)

	_, cmd := s.Update(keyPress('e'))
	if cmd == nil {
		t.Fatal("expected export command")
	}
	if !s.Exporting() {
		t.Error("export control should be disabled while running")
	}

	// A second press while busy is ignored.
	if _, again := s.Update(keyPress('e')); again != nil {
		t.Error("expected no second export while busy")
	}

	s.Update(cmd())
	if s.Exporting() {
		t.Error("export control should be re-enabled")
	}
	if exp.calls != 1 || exp.catalyst != "growth" {
		t.Errorf("calls = %d catalyst = %q", exp.calls, exp.catalyst)
	}
	if !strings.Contains(s.Status(), "assessment-results-2026-10-18.pdf (3 pages)") {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestResultsScreen_ExportFailureReenables(t *testing.T) {
	exp := &fakeExporter{err: &scoring.ExportError{Status: 502}}
	s := New(testResult(), "growth", exp, time.Second)

	_, cmd := s.Update(keyPress('e'))
	s.Update(cmd())

	if s.Exporting() {
		t.Error("export control should be re-enabled after failure")
	}
	if !strings.HasPrefix(s.Status(), "Export failed") {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestResultsScreen_ExportNothingToExport(t *testing.T) {
	exp := &fakeExporter{err: scoring.ErrNothingToExport}
	s := New(testResult(), "growth", exp, time.Second)

	_, cmd := s.Update(keyPress('e'))
	s.Update(cmd())

	if !strings.Contains(s.Status(), "submit the assessment first") {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestResultsScreen_NoExporter(t *testing.T) {
	s := New(testResult(), "growth", nil, 0)
	if _, cmd := s.Update(keyPress('e')); cmd != nil {
		t.Error("expected no export without an exporter")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{float64(3), "3"},
		{2.26, "2.3"},
		{"high", "high"},
		{nil, "-"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
