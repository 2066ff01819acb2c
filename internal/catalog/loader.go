package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// maxDocumentSize caps how much of a source document is read.
const maxDocumentSize = 8 << 20

// Sources names the two documents a catalog is built from. Each is an
// http(s) URL, a file:// URL or a local path.
type Sources struct {
	Questions       string
	FunctionalAreas string
}

// Loader fetches catalog sources and builds a Catalog.
type Loader struct {
	client *http.Client
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil client uses http.DefaultClient and a nil
// logger uses slog.Default().
func NewLoader(client *http.Client, logger *slog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{client: client, logger: logger}
}

// Load retrieves both sources concurrently and builds the catalog. Any
// retrieval failure aborts the load with a *LoadError; a malformed questions
// document yields a *ConfigError. No partial catalog is ever returned.
func (l *Loader) Load(ctx context.Context, src Sources) (*Catalog, error) {
	var questions, areas []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := l.fetchJSON(gctx, src.Questions)
		questions = b
		return err
	})
	g.Go(func() error {
		b, err := l.fetchJSON(gctx, src.FunctionalAreas)
		areas = b
		return err
	})
	if err := g.Wait(); err != nil {
		l.logger.Error("catalog load failed", "error", err)
		return nil, err
	}

	cat, err := Parse(questions)
	if err != nil {
		l.logger.Error("catalog rejected", "error", err)
		return nil, err
	}
	cat.FunctionalAreas = areas

	l.logger.Info("catalog loaded",
		"sections", len(cat.Sections()),
		"questions", cat.Len(),
	)
	return cat, nil
}

// FetchPrefill retrieves an answer map of question id to token from
// source. Scalar values are stringified so numeric tokens round-trip.
func (l *Loader) FetchPrefill(ctx context.Context, source string) (map[string]string, error) {
	b, err := l.fetchJSON(ctx, source)
	if err != nil {
		return nil, err
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return nil, fmt.Errorf("prefill %s: expected a JSON object", source)
	}

	answers := make(map[string]string)
	root.ForEach(func(id, tok gjson.Result) bool {
		switch tok.Type {
		case gjson.String, gjson.Number:
			answers[id.String()] = tok.String()
		}
		return true
	})
	return answers, nil
}

// fetchJSON reads source and checks that it holds a JSON document.
func (l *Loader) fetchJSON(ctx context.Context, source string) ([]byte, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &LoadError{Source: source, Err: errors.New("no source configured")}
	}

	b, err := l.fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(b) {
		return nil, &LoadError{Source: source, Err: errors.New("response is not valid JSON")}
	}
	return b, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare path; a one-letter scheme is a Windows drive.
		return readFile(source)
	}

	switch u.Scheme {
	case "file":
		return readFile(u.Path)
	case "http", "https":
	default:
		return nil, &LoadError{Source: source, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{Source: source, Status: resp.StatusCode}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("read body: %w", err)}
	}
	l.logger.Debug("fetched catalog source", "source", source, "bytes", len(b))
	return b, nil
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return b, nil
}
