package leadform

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid is returned by Submit when the draft fails validation.
	ErrInvalid = errors.New("leadform: draft is invalid")

	// ErrSubmitting is returned by Submit while a previous submission is in flight.
	ErrSubmitting = errors.New("leadform: submission already in flight")

	// ErrUnknownField is returned by UpdateField for fields outside the form.
	ErrUnknownField = errors.New("leadform: unknown field")
)

// StatusError is returned by HTTPNotifier when the endpoint answers with a
// non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("leadform: endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("leadform: endpoint returned status %d: %s", e.StatusCode, e.Message)
}
