package scoring

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when the same operation is already in flight.
var ErrBusy = errors.New("request already in progress")

// ErrResponseTooLarge is wrapped when an endpoint answers with more data
// than the client will read.
var ErrResponseTooLarge = errors.New("response too large")

// ErrNothingToExport is returned by Export when no result has been obtained.
var ErrNothingToExport = &StateError{Reason: "nothing to export: submit the assessment first"}

// SubmissionError indicates the scoring request failed. The session is
// left untouched and the user may retry.
type SubmissionError struct {
	Status int    // HTTP status, 0 on transport failure
	Body   string // truncated response body, if any
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("submit assessment: HTTP %d", e.Status)
	}
	return fmt.Sprintf("submit assessment: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ExportError indicates the document-generation request or the file
// delivery failed.
type ExportError struct {
	Status int
	Err    error
}

func (e *ExportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("export results: HTTP %d", e.Status)
	}
	return fmt.Sprintf("export results: %v", e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// StateError indicates an operation was attempted in a state that does not
// allow it. The message is meant to be shown to the user as-is.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return e.Reason
}
