package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/config"
	"github.com/abhisek/assessor/internal/logging"
	"github.com/abhisek/assessor/internal/scoring"
	"github.com/abhisek/assessor/internal/session"
	"github.com/abhisek/assessor/internal/store"
)

// ResultStore keeps the last scoring result between runs.
type ResultStore interface {
	Save(rec store.ResultRecord)
	Load() (store.ResultRecord, bool)
	Clear()
}

// Env is the wired set of collaborators shared by the terminal UI and the
// non-interactive commands.
type Env struct {
	Config  config.Config
	Logger  *slog.Logger
	HTTP    *http.Client
	Client  *scoring.Client
	Answers session.AnswerStore
	Results ResultStore

	db *store.Store
}

// NewEnv wires an Env. dsn selects the database; when it cannot be opened
// answers and results are kept in memory for this run only.
func NewEnv(cfg config.Config, dsn string, logger *slog.Logger) *Env {
	if logger == nil {
		logger = logging.Discard()
	}
	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: logging.WithLogging(nil, logger),
	}

	env := &Env{
		Config: cfg,
		Logger: logger,
		HTTP:   httpClient,
		Client: scoring.NewClient(scoring.Config{
			SubmitURL:  cfg.SubmitURL,
			ExportURL:  cfg.ExportURL,
			OutputDir:  cfg.OutputDir,
			HTTPClient: httpClient,
			Logger:     logger,
		}),
	}

	db, err := store.Open(dsn)
	if err != nil {
		logger.Warn("answer storage unavailable; keeping answers in memory", "error", err)
		env.Answers = store.NewMemoryRepo()
		env.Results = store.NewMemoryResultRepo()
		return env
	}
	env.db = db
	env.Answers = db.AnswerRepo(store.WithLogger(logger))
	env.Results = db.ResultRepo(store.WithLogger(logger))
	return env
}

// Persistent reports whether answers survive the process.
func (e *Env) Persistent() bool {
	return e.db != nil
}

// Close releases the database.
func (e *Env) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// LoadSession loads the catalog and builds a session seeded with persisted
// answers, with any prefilled answers merged over them. Prefill trouble is
// logged and otherwise ignored.
func (e *Env) LoadSession(ctx context.Context) (*session.Session, error) {
	loader := catalog.NewLoader(e.HTTP, e.Logger)
	cat, err := e.loadCatalog(ctx, loader)
	if err != nil {
		return nil, err
	}

	sess := session.New(cat, e.Answers)
	if e.Config.PrefillURL == "" {
		return sess, nil
	}

	prefill, err := loader.FetchPrefill(ctx, e.Config.PrefillURL)
	if err != nil {
		e.Logger.Info("prefill unavailable", "source", e.Config.PrefillURL, "error", err)
		return sess, nil
	}
	if err := sess.Merge(prefill); err != nil {
		e.Logger.Warn("merge prefill", "error", err)
	}
	return sess, nil
}

// PeekSession builds a session over a copy of the persisted answers.
// Prefill is not fetched and nothing the session does is written back.
func (e *Env) PeekSession(ctx context.Context) (*session.Session, error) {
	cat, err := e.loadCatalog(ctx, catalog.NewLoader(e.HTTP, e.Logger))
	if err != nil {
		return nil, err
	}
	scratch := store.NewMemoryRepo()
	scratch.Save(e.Answers.Load())
	return session.New(cat, scratch), nil
}

func (e *Env) loadCatalog(ctx context.Context, loader *catalog.Loader) (*catalog.Catalog, error) {
	return loader.Load(ctx, catalog.Sources{
		Questions:       e.Config.DataPaths.Questions,
		FunctionalAreas: e.Config.DataPaths.FunctionalAreas,
	})
}

// SaveResult records r as the last result for catalyst.
func (e *Env) SaveResult(catalyst string, r *scoring.Result) {
	body, err := json.Marshal(r)
	if err != nil {
		e.Logger.Warn("encode result", "error", err)
		return
	}
	e.Results.Save(store.ResultRecord{Catalyst: catalyst, Result: body})
}

// LastResult returns the last saved result and its catalyst.
func (e *Env) LastResult() (*scoring.Result, string, bool) {
	rec, ok := e.Results.Load()
	if !ok {
		return nil, "", false
	}
	return scoring.ParseResult(rec.Result), rec.Catalyst, true
}

// ClearSaved drops persisted answers and the last result without loading
// the catalog.
func (e *Env) ClearSaved() {
	e.Answers.Clear()
	e.Results.Clear()
}
