package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"sync"
	"time"
)

// AnswersKey is the versioned key the answer map is stored under.
const AnswersKey = "assessment_answers_v1"

// opTimeout bounds each repository call so a wedged database cannot stall
// the UI.
const opTimeout = 3 * time.Second

// RepoOption configures a repository.
type RepoOption func(*repoConfig)

type repoConfig struct {
	key    string
	logger *slog.Logger
}

// WithLogger sets the logger used for degraded operations.
func WithLogger(l *slog.Logger) RepoOption {
	return func(c *repoConfig) { c.logger = l }
}

// WithKey overrides the repository's default key.
func WithKey(key string) RepoOption {
	return func(c *repoConfig) { c.key = key }
}

func buildRepoConfig(key string, opts []RepoOption) repoConfig {
	c := repoConfig{key: key, logger: slog.Default()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// AnswerRepo persists the answer map as one JSON snapshot. It never
// returns errors: failures are logged and the caller's in-memory map stays
// authoritative.
type AnswerRepo struct {
	kv     kv
	key    string
	logger *slog.Logger
}

type kv interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

func newAnswerRepo(kv kv, opts ...RepoOption) *AnswerRepo {
	c := buildRepoConfig(AnswersKey, opts)
	return &AnswerRepo{kv: kv, key: c.key, logger: c.logger}
}

// Save stores a snapshot of answers.
func (r *AnswerRepo) Save(answers map[string]string) {
	b, err := json.Marshal(answers)
	if err != nil {
		r.logger.Warn("encode answers", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := r.kv.Put(ctx, r.key, string(b)); err != nil {
		r.logger.Warn("save answers; continuing in memory", "error", err)
	}
}

// Load returns the last saved snapshot. Missing, unreadable or corrupt data
// all load as an empty map.
func (r *AnswerRepo) Load() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		r.logger.Warn("load answers", "error", err)
		return map[string]string{}
	}
	if !ok {
		return map[string]string{}
	}

	answers := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		r.logger.Warn("stored answers are corrupt; ignoring", "error", err)
		return map[string]string{}
	}
	return answers
}

// Clear removes the stored snapshot.
func (r *AnswerRepo) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := r.kv.Delete(ctx, r.key); err != nil {
		r.logger.Warn("clear answers", "error", err)
	}
}

// MemoryRepo keeps the answer snapshot in process memory. It stands in
// when no database can be opened.
type MemoryRepo struct {
	mu      sync.Mutex
	answers map[string]string
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Save(answers map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = maps.Clone(answers)
}

func (m *MemoryRepo) Load() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.answers == nil {
		return map[string]string{}
	}
	return maps.Clone(m.answers)
}

func (m *MemoryRepo) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = nil
}
