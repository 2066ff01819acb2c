package session

import (
	"fmt"
	"maps"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/scoring"
)

// Session owns the answer map, the cursor into the flat question sequence
// and the scoring result. It is not safe for concurrent use; callers drive
// it from a single event loop.
type Session struct {
	catalog *catalog.Catalog
	store   AnswerStore

	answers map[string]string
	cursor  int
	phase   Phase
	result  *scoring.Result

	// generation changes whenever state is wiped, so responses to requests
	// started before a reset can be recognized and dropped.
	generation uint64
}

// New creates a session over cat, seeded with whatever store has persisted.
// A nil store keeps answers in memory only.
func New(cat *catalog.Catalog, store AnswerStore) *Session {
	if store == nil {
		store = nopStore{}
	}
	s := &Session{
		catalog: cat,
		store:   store,
		answers: make(map[string]string),
		phase:   PhaseInProgress,
	}
	maps.Copy(s.answers, store.Load())
	s.cursor = s.firstPosition()
	return s
}

// Catalog returns the catalog the session was built on.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Merge overlays answers onto the current map and persists the result.
// It is used at boot for prefilled answers.
func (s *Session) Merge(answers map[string]string) error {
	if s.phase == PhaseLocked {
		return ErrLocked
	}
	if len(answers) == 0 {
		return nil
	}
	maps.Copy(s.answers, answers)
	s.store.Save(s.Answers())
	return nil
}

// RecordAnswer sets the answer for questionID and persists the map. When
// the cursor is on that question and not at the end, it moves forward one.
func (s *Session) RecordAnswer(questionID, token string) error {
	if s.phase == PhaseLocked {
		return ErrLocked
	}
	q, ok := s.catalog.Question(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if !q.HasToken(token) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidToken, token, questionID)
	}

	s.answers[questionID] = token
	s.store.Save(s.Answers())

	if cur, ok := s.catalog.QuestionAt(s.cursor); ok && cur.ID == questionID && s.cursor < s.catalog.Len()-1 {
		s.cursor++
	}
	return nil
}

// Navigate moves the cursor by delta, clamped to the question range.
func (s *Session) Navigate(delta int) error {
	if s.phase == PhaseLocked {
		return ErrLocked
	}
	if s.catalog.Empty() {
		return nil
	}
	s.cursor = clamp(s.cursor+delta, 0, s.catalog.Len()-1)
	return nil
}

// JumpToSection moves the cursor to the first question of the named section.
func (s *Session) JumpToSection(name string) error {
	if s.phase == PhaseLocked {
		return ErrLocked
	}
	sec, ok := s.catalog.Section(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
	s.cursor = sec.Start
	return nil
}

// Reset wipes answers and any result, unlocks the session and clears the
// persisted copy. It is destructive, so the caller must pass the user's
// confirmation explicitly.
func (s *Session) Reset(confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	s.answers = make(map[string]string)
	s.result = nil
	s.phase = PhaseInProgress
	s.cursor = s.firstPosition()
	s.generation++
	s.store.Clear()
	return nil
}

// ApplyResult stores the scoring result and locks the session. This is the
// only way into the locked phase.
func (s *Session) ApplyResult(r *scoring.Result) {
	if r == nil {
		r = &scoring.Result{}
	}
	s.result = r
	s.phase = PhaseLocked
}

// Cursor returns the current flat position, or -1 when the catalog is empty.
func (s *Session) Cursor() int {
	return s.cursor
}

// Current returns the question under the cursor.
func (s *Session) Current() (catalog.Question, bool) {
	return s.catalog.QuestionAt(s.cursor)
}

// CurrentSection returns the section containing the cursor.
func (s *Session) CurrentSection() (catalog.Section, bool) {
	return s.catalog.SectionAt(s.cursor)
}

// AtStart reports whether the cursor cannot move back.
func (s *Session) AtStart() bool {
	return s.cursor <= 0
}

// AtEnd reports whether the cursor cannot move forward.
func (s *Session) AtEnd() bool {
	return s.cursor >= s.catalog.Len()-1
}

// Answer returns the recorded token for questionID.
func (s *Session) Answer(questionID string) (string, bool) {
	tok, ok := s.answers[questionID]
	return tok, ok
}

// Answers returns a copy of the answer map.
func (s *Session) Answers() map[string]string {
	return maps.Clone(s.answers)
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Locked reports whether a result has been applied.
func (s *Session) Locked() bool {
	return s.phase == PhaseLocked
}

// Result returns the applied result, or nil.
func (s *Session) Result() *scoring.Result {
	return s.result
}

// Generation identifies the current incarnation of session state.
func (s *Session) Generation() uint64 {
	return s.generation
}

// Stale reports whether a response tagged with gen arrived after a reset.
func (s *Session) Stale(gen uint64) bool {
	return gen != s.generation
}

// Snapshot copies the state needed for rendering.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:      s.phase,
		Cursor:     s.cursor,
		Answers:    s.Answers(),
		Result:     s.result,
		Generation: s.generation,
	}
}

func (s *Session) firstPosition() int {
	if s.catalog.Empty() {
		return -1
	}
	return 0
}

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}
