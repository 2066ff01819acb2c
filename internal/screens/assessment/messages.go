package assessment

import (
	"github.com/abhisek/assessor/internal/scoring"
	"github.com/abhisek/assessor/internal/session"
)

// loadedMsg is sent when the catalog and session are ready or have failed.
type loadedMsg struct {
	Session *session.Session
	Err     error
}

// submitDoneMsg carries a submission outcome, tagged with the session
// generation it was started from.
type submitDoneMsg struct {
	Gen      uint64
	Catalyst string
	Result   *scoring.Result
	Err      error
}
