package services

import (
	"errors"
	"fmt"

	"lifeline/internal/models"
)

// Domain error taxonomy. Handlers map these to HTTP codes with errors.Is;
// repositories wrap storage failures separately.
var (
	// ErrInvalidTransition is returned for a state change not legal from the
	// event's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrTerminalState is returned for any mutation attempted on a resolved
	// event.
	ErrTerminalState = errors.New("event is resolved")

	// ErrValidation is returned for malformed input such as a route with
	// fewer than two points.
	ErrValidation = errors.New("validation failed")

	// ErrAccessDenied is returned when disclosure is requested against a
	// revoked, expired or absent grant.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound is returned when the referenced event or profile does not
	// exist.
	ErrNotFound = errors.New("not found")
)

func invalidTransitionError(from, to models.SOSStatus) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: cannot leave %s", ErrTerminalState, from)
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
