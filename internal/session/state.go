package session

import "github.com/abhisek/assessor/internal/scoring"

// Phase is the session's position in its lifecycle.
type Phase int

const (
	PhaseInProgress Phase = iota // Answers may be recorded and navigated
	PhaseLocked                  // A result is shown; input is disabled until reset
)

func (p Phase) String() string {
	if p == PhaseLocked {
		return "locked"
	}
	return "in-progress"
}

// AnswerStore mirrors the answer map durably. Implementations must not
// fail: storage trouble degrades to a no-op.
type AnswerStore interface {
	Save(answers map[string]string)
	Load() map[string]string
	Clear()
}

type nopStore struct{}

func (nopStore) Save(map[string]string)  {}
func (nopStore) Load() map[string]string { return map[string]string{} }
func (nopStore) Clear()                  {}

// Snapshot is a read-only copy of session state for rendering.
type Snapshot struct {
	Phase      Phase
	Cursor     int
	Answers    map[string]string
	Result     *scoring.Result
	Generation uint64
}
