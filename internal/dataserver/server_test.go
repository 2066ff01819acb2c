package dataserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/logging"
)

const questions = `{"assessment": {"Finance": [{"id": "Q1", "question": "Cash flow?", "scoring_scale": {"1": "Low", "2": "High"}}]}}`

func dataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func newServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	h, err := New(Options{Dir: dataDir(t, files), Logger: logging.Discard()})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	srv := newServer(t, map[string]string{QuestionsFile: questions})

	resp, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestQuestionsServedVerbatim(t *testing.T) {
	srv := newServer(t, map[string]string{QuestionsFile: questions})

	resp, body := get(t, srv.URL+"/questions")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, questions, body)
}

func TestMissingOptionalDocument(t *testing.T) {
	srv := newServer(t, map[string]string{QuestionsFile: questions})

	resp, _ := get(t, srv.URL+"/prefill")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStaticFiles(t *testing.T) {
	srv := newServer(t, map[string]string{
		QuestionsFile:       questions,
		FunctionalAreasFile: `{"Finance": "Money"}`,
	})

	resp, body := get(t, srv.URL+"/data/functional_areas.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"Finance": "Money"}`, body)
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t, map[string]string{QuestionsFile: questions})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/questions", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNew_RejectsMalformedCatalog(t *testing.T) {
	dir := dataDir(t, map[string]string{QuestionsFile: `{"assessment": {"Finance": [{"id": "Q1", "question": "?", "scoring_scale": {}}]}}`})

	_, err := New(Options{Dir: dir, Logger: logging.Discard()})
	var cfgErr *catalog.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNew_MissingQuestions(t *testing.T) {
	_, err := New(Options{Dir: t.TempDir(), Logger: logging.Discard()})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderAgainstServer(t *testing.T) {
	srv := newServer(t, map[string]string{
		QuestionsFile:       questions,
		FunctionalAreasFile: `{}`,
		PrefillFile:         `{"Q1": "2"}`,
	})

	loader := catalog.NewLoader(srv.Client(), logging.Discard())
	cat, err := loader.Load(context.Background(), catalog.Sources{
		Questions:       srv.URL + "/questions",
		FunctionalAreas: srv.URL + "/functional-areas",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	prefill, err := loader.FetchPrefill(context.Background(), srv.URL+"/prefill")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Q1": "2"}, prefill)
}

func TestServe_StopsOnCancel(t *testing.T) {
	h, err := New(Options{Dir: dataDir(t, map[string]string{QuestionsFile: questions}), Logger: logging.Discard()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", h, logging.Discard()) }()
	cancel()
	assert.NoError(t, <-done)
}
