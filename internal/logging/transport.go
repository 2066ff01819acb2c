package logging

import (
	"log/slog"
	"net/http"
	"time"
)

// Transport is an http.RoundTripper decorator that records every outbound
// request with its status and latency.
type Transport struct {
	inner  http.RoundTripper
	logger *slog.Logger
}

// WithLogging wraps rt (http.DefaultTransport when nil) with request logging.
func WithLogging(rt http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{inner: rt, logger: logger}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.inner.RoundTrip(req)

	attrs := []any{
		"method", req.Method,
		"url", req.URL.Redacted(),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if id := req.Header.Get("X-Request-ID"); id != "" {
		attrs = append(attrs, "request_id", id)
	}

	// Logging never changes the outcome of the request.
	if err != nil {
		t.logger.Warn("http request failed", append(attrs, "error", err)...)
		return resp, err
	}
	attrs = append(attrs, "status", resp.StatusCode)
	if resp.StatusCode >= 400 {
		t.logger.Warn("http request", attrs...)
	} else {
		t.logger.Debug("http request", attrs...)
	}
	return resp, nil
}
