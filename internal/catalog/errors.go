package catalog

import "fmt"

// LoadError indicates a catalog source could not be retrieved. It is
// terminal for the boot attempt.
type LoadError struct {
	Source string
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("load %s: HTTP %d", e.Source, e.Status)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConfigError indicates a malformed catalog document.
type ConfigError struct {
	Section    string
	QuestionID string
	Reason     string
	Err        error
}

func (e *ConfigError) Error() string {
	msg := "malformed catalog"
	if e.Section != "" {
		msg += fmt.Sprintf(" (section %q", e.Section)
		if e.QuestionID != "" {
			msg += fmt.Sprintf(", question %q", e.QuestionID)
		}
		msg += ")"
	} else if e.QuestionID != "" {
		msg += fmt.Sprintf(" (question %q)", e.QuestionID)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }
