package session

import "errors"

var (
	ErrLocked          = errors.New("session is locked: reset to start over")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownSection  = errors.New("unknown section")
	ErrInvalidToken    = errors.New("answer is not on the question's scale")
	ErrNotConfirmed    = errors.New("reset not confirmed")
	ErrNoCatalyst      = errors.New("a catalyst must be selected before submitting")
	ErrEmptySubmission = errors.New("no scored answers to submit")
)
