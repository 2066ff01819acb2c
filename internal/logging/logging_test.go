package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "assessor.log")

	logger, closer, err := Setup(path, slog.LevelInfo)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello k=v")
	assert.NotContains(t, string(data), "hidden")
}

func TestSetup_Stderr(t *testing.T) {
	logger, closer, err := Setup("", slog.LevelInfo)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	got, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "assessor", "assessor.log"), got)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestTransport_LogsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	client := &http.Client{Transport: WithLogging(nil, logger)}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/assess", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc")
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), "status=500")
	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestTransport_PassesErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	var buf bytes.Buffer
	rt := WithLogging(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	}), slog.New(slog.NewTextHandler(&buf, nil)))

	req := httptest.NewRequest(http.MethodPost, "http://scorer.invalid/assess", nil)
	_, err := rt.RoundTrip(req)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "http request failed")
}
