// Package dataserver serves a directory of catalog documents over HTTP so
// the client can run against local files through URLs.
package dataserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/assessor/internal/catalog"
)

// File names looked up in the data directory.
const (
	QuestionsFile       = "questions.json"
	FunctionalAreasFile = "functional_areas.json"
	PrefillFile         = "prefill.json"
)

// Options configures the data server.
type Options struct {
	// Dir holds questions.json, functional_areas.json and optionally
	// prefill.json. Everything in it is also served under /data/.
	Dir    string
	Logger *slog.Logger
}

// New validates the questions document in opts.Dir and returns the
// router. A malformed catalog is reported here rather than to clients.
func New(opts Options) (http.Handler, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	doc, err := os.ReadFile(filepath.Join(opts.Dir, QuestionsFile))
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	cat, err := catalog.Parse(doc)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("serving catalog", "dir", opts.Dir, "sections", len(cat.Sections()), "questions", cat.Len())

	h := &handler{dir: opts.Dir, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(withLogging(opts.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Get("/questions", h.file(QuestionsFile))
	r.Get("/functional-areas", h.file(FunctionalAreasFile))
	r.Get("/prefill", h.file(PrefillFile))
	r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.Dir(opts.Dir))))

	return r, nil
}

// Serve runs handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type handler struct {
	dir    string
	logger *slog.Logger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// file serves one JSON document from the data directory, re-read on every
// request so edits show up without a restart.
func (h *handler) file(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(filepath.Join(h.dir, name))
		if errors.Is(err, os.ErrNotExist) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": name + " not found"}, h.logger)
			return
		}
		if err != nil {
			h.logger.Error("read data file", "file", name, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "read failed"}, h.logger)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// withLogging logs each request once it completes.
func withLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
