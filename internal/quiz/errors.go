package quiz

import (
	"fmt"

	"github.com/interview-prep/backend/internal/models"
)

// ValidationError rejects operator input, such as a blank answer. The
// session is left untouched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// InvalidStateError reports an operation attempted in a state that does not
// allow it, e.g. submitting an answer while evaluations are in flight.
type InvalidStateError struct {
	Op    string
	State models.SessionState
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s not allowed in state %q", e.Op, e.State)
}

// SessionDataError wraps a failure of the question source.
type SessionDataError struct {
	Op  string
	Err error
}

func (e *SessionDataError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SessionDataError) Unwrap() error {
	return e.Err
}
