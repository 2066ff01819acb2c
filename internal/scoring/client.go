package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 32 << 20

// Config configures a Client.
type Config struct {
	SubmitURL string
	ExportURL string

	// OutputDir is where exported documents are written.
	OutputDir string

	HTTPClient *http.Client
	Logger     *slog.Logger

	// Now is used for export file names. Defaults to time.Now.
	Now func() time.Time
}

// Client talks to the scoring and document-generation endpoints. Submit
// and Export are each single-flight; they may overlap with each other.
type Client struct {
	submitURL string
	exportURL string
	outputDir string
	http      *http.Client
	logger    *slog.Logger
	now       func() time.Time
	maxBody   int64

	submitting atomic.Bool
	exporting  atomic.Bool
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	c := &Client{
		submitURL: cfg.SubmitURL,
		exportURL: cfg.ExportURL,
		outputDir: cfg.OutputDir,
		http:      cfg.HTTPClient,
		logger:    cfg.Logger,
		now:       cfg.Now,
		maxBody:   maxResponseSize,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.outputDir == "" {
		c.outputDir = "."
	}
	return c
}

// Submit posts the payload to the scoring endpoint. Non-2xx responses and
// transport failures return a *SubmissionError. A 2xx body that cannot be
// decoded yields an empty Result.
func (c *Client) Submit(ctx context.Context, p Payload) (*Result, error) {
	if !c.submitting.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.submitting.Store(false)

	if p.Answers == nil {
		p.Answers = []AnswerEntry{}
	}

	start := time.Now()
	resp, body, err := c.postJSON(ctx, c.submitURL, p)
	if err != nil {
		c.logger.Error("submit failed", "error", err)
		return nil, &SubmissionError{Err: err}
	}

	if !isSuccess(resp.StatusCode) {
		c.logger.Warn("submit rejected",
			"status", resp.StatusCode,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return nil, &SubmissionError{Status: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	result := ParseResult(body)
	c.logger.Info("submit succeeded",
		"answers", len(p.Answers),
		"tier", result.OverallTier,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// postJSON sends v as a JSON POST and returns the response with its body
// fully read. A body larger than maxBody is an error rather than being cut
// short.
func (c *Client) postJSON(ctx context.Context, url string, v any) (*http.Response, []byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	c.logger.Debug("POST", "url", url, "request_id", reqID, "bytes", len(b))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)
	}
	return resp, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
