package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a single-item lookup matches nothing.
// It is distinct from transport and status errors so callers can render an
// empty state instead of a retry state.
var ErrNotFound = errors.New("content not found")

// StatusError reports a non-success HTTP status from the content backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.Code)
}
