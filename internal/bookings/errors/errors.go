package errors

import (
	"errors"
	"fmt"

	"courtbook/pkg/model"
)

var (
	ErrNotFound = errors.New("booking not found")

	ErrTimeConflict = errors.New("booking time conflicts with existing booking")

	ErrNotOwner = errors.New("booking belongs to another student")

	ErrInvalidState = errors.New("booking state does not allow this operation")

	ErrInvalidRating = errors.New("rating out of range")

	ErrInPast = errors.New("booking interval is in the past")

	// ErrInvariantViolation marks ledger corruption, never a caller mistake.
	ErrInvariantViolation = errors.New("ledger invariant violated")
)

// StateError reports a lifecycle transition refused because of the
// booking's current state.
type StateError struct {
	State model.BookingState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: current state %s", ErrInvalidState, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
