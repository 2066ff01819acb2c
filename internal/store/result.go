package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// ResultKey is the versioned key the last scoring result is stored under.
const ResultKey = "assessment_result_v1"

// ResultRecord is the last scoring response together with the catalyst it
// was submitted for. Result is kept as raw JSON so this package stays
// independent of the scorer's schema.
type ResultRecord struct {
	Catalyst string          `json:"catalyst"`
	Result   json.RawMessage `json:"result"`
	SavedAt  time.Time       `json:"saved_at"`
}

// ResultRepo keeps the most recent ResultRecord so a result can be exported
// after the process that received it has exited. Like AnswerRepo it logs
// failures instead of returning them.
type ResultRepo struct {
	kv     kv
	key    string
	logger *slog.Logger
}

func newResultRepo(kv kv, opts ...RepoOption) *ResultRepo {
	c := buildRepoConfig(ResultKey, opts)
	return &ResultRepo{kv: kv, key: c.key, logger: c.logger}
}

// Save replaces the stored record.
func (r *ResultRepo) Save(rec ResultRecord) {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	b, err := json.Marshal(rec)
	if err != nil {
		r.logger.Warn("encode result", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := r.kv.Put(ctx, r.key, string(b)); err != nil {
		r.logger.Warn("save result", "error", err)
	}
}

// Load returns the stored record. ok is false when nothing usable is stored.
func (r *ResultRepo) Load() (rec ResultRecord, ok bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		r.logger.Warn("load result", "error", err)
		return ResultRecord{}, false
	}
	if !found {
		return ResultRecord{}, false
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || len(rec.Result) == 0 {
		r.logger.Warn("stored result is unreadable; ignoring", "error", err)
		return ResultRecord{}, false
	}
	return rec, true
}

// Clear removes the stored record.
func (r *ResultRepo) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := r.kv.Delete(ctx, r.key); err != nil {
		r.logger.Warn("clear result", "error", err)
	}
}

// MemoryResultRepo keeps the last result in process memory.
type MemoryResultRepo struct {
	mu  sync.Mutex
	rec *ResultRecord
}

// NewMemoryResultRepo returns an empty MemoryResultRepo.
func NewMemoryResultRepo() *MemoryResultRepo {
	return &MemoryResultRepo{}
}

func (m *MemoryResultRepo) Save(rec ResultRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &rec
}

func (m *MemoryResultRepo) Load() (ResultRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return ResultRecord{}, false
	}
	return *m.rec, true
}

func (m *MemoryResultRepo) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
}
