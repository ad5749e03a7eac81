package tracker

import (
	"fmt"

	"github.com/myrjola/fitplan/internal/errors"
)

// ErrNotFound is returned when a referenced plan, log or exercise does not exist.
var ErrNotFound = errors.NewSentinel("not found")

// ValidationError reports user input that cannot be accepted. Operations returning it have not changed any state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
