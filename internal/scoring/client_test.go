package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return NewClient(Config{
		SubmitURL:  srv.URL + "/assess",
		ExportURL:  srv.URL + "/export-pdf",
		OutputDir:  t.TempDir(),
		HTTPClient: srv.Client(),
		Now:        fixedNow,
	})
}

func TestSubmit_SendsPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{
			"overall_tier": "Established",
			"overall_score": 72.5,
			"priority_categories": ["Finance"],
			"category_scores": {"Finance": 40},
			"recommendations": "### Focus\n**Cash** first"
		}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	res, err := c.Submit(context.Background(), Payload{
		Catalyst: "acme",
		Answers: []AnswerEntry{
			{QuestionID: "Q1", Score: 2},
			{QuestionID: "Q2", Score: 1},
		},
	})
	require.NoError(t, err)

	want := map[string]any{
		"catalyst": "acme",
		"answers": []any{
			map[string]any{"question_id": "Q1", "score": float64(2), "notes": nil},
			map[string]any{"question_id": "Q2", "score": float64(1), "notes": nil},
		},
	}
	assert.Equal(t, want, got)

	assert.Equal(t, "Established", res.OverallTier)
	assert.Equal(t, 72.5, res.OverallScore)
	assert.Equal(t, []string{"Finance"}, res.PriorityCategories)
	assert.Equal(t, map[string]any{"Finance": float64(40)}, res.CategoryScores)
	assert.Equal(t, []string{"### Focus\n**Cash** first"}, res.Recommendations)
}

func TestSubmit_ServerErrorIsSubmissionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	res, err := c.Submit(context.Background(), Payload{Catalyst: "acme"})
	assert.Nil(t, res)

	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, http.StatusInternalServerError, subErr.Status)
	assert.Contains(t, subErr.Body, "boom")
}

func TestSubmit_TransportErrorIsSubmissionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{SubmitURL: url + "/assess"})
	_, err := c.Submit(context.Background(), Payload{Catalyst: "acme"})

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Zero(t, subErr.Status)
	assert.Error(t, subErr.Err)
}

func TestSubmit_UnparseableBodyIsEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	res, err := c.Submit(context.Background(), Payload{Catalyst: "acme"})
	require.NoError(t, err)
	assert.Equal(t, &Result{}, res)
}

func TestSubmit_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), Payload{Catalyst: "a"})
		done <- err
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	_, err := c.Submit(context.Background(), Payload{Catalyst: "b"})
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExport_NoResultMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Export(context.Background(), nil, "acme")

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.Zero(t, calls.Load())
}

func TestExport_WritesDatedFilesWithoutCollisions(t *testing.T) {
	doc := minimalPDF()
	var got exportRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=SBDC_Assessment_Results.pdf")
		_, _ = w.Write(doc)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	res := &Result{
		OverallTier:        "Emerging",
		OverallScore:       41,
		PriorityCategories: []string{"Finance", "Ops"},
		CategoryScores:     map[string]any{"Finance": 30.0},
		Recommendations:    []string{"one", "two"},
	}

	first, err := c.Export(context.Background(), res, "acme")
	require.NoError(t, err)
	second, err := c.Export(context.Background(), res, "acme")
	require.NoError(t, err)

	assert.Equal(t, "assessment-results-2026-10-18.pdf", filepath.Base(first.Path))
	assert.Equal(t, "assessment-results-2026-10-18-2.pdf", filepath.Base(second.Path))
	assert.Equal(t, 1, first.Pages)

	data, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, doc, data)

	assert.Equal(t, "acme", got.Catalyst)
	assert.Equal(t, "Emerging", got.OverallTier)
	assert.Equal(t, 41.0, got.OverallScore)
	assert.Equal(t, []string{"Finance", "Ops"}, got.PriorityCategories)
	assert.Equal(t, "one\n\ntwo", got.Recommendations)
}

func TestExport_NonPDFStillDelivered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not a pdf")
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	out, err := c.Export(context.Background(), &Result{}, "acme")
	require.NoError(t, err)
	assert.Zero(t, out.Pages)
	assert.Equal(t, int64(len("not a pdf")), out.Size)
}

func TestExport_FailureIsExportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Export(context.Background(), &Result{}, "acme")

	var expErr *ExportError
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, http.StatusBadGateway, expErr.Status)

	entries, err := os.ReadDir(c.outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_OversizedBodyIsExportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="results.pdf"`)
		_, _ = io.WriteString(w, strings.Repeat("x", 64))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.maxBody = 32
	_, err := c.Export(context.Background(), &Result{}, "acme")

	var expErr *ExportError
	require.ErrorAs(t, err, &expErr)
	assert.ErrorIs(t, err, ErrResponseTooLarge)

	entries, err := os.ReadDir(c.outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_BodyAtLimitDelivered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 32))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.maxBody = 32
	out, err := c.Export(context.Background(), &Result{}, "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(32), out.Size)
}

func TestSubmit_OversizedBodyIsSubmissionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"overall_score": 1, "padding": "`+strings.Repeat("x", 64)+`"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.maxBody = 32
	_, err := c.Submit(context.Background(), Payload{Catalyst: "acme"})

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

func TestExtensionFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ".pdf"},
		{"attachment; filename=report.pdf", ".pdf"},
		{`attachment; filename="report.DOCX"`, ".docx"},
		{"attachment", ".pdf"},
		{"garbage;;", ".pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extensionFrom(tt.in), tt.in)
	}
}

// minimalPDF builds a one-page PDF with a correct xref table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return []byte(b.String())
}
