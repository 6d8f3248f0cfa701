package booking

import "errors"

var (
	// ErrNotFound is returned when no booking matches the given id.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidStatus is returned for a status outside the closed set.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrIllegalTransition is returned when the transition table forbids a
	// status change.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrTerminalAssignment is returned when assigning a provider to a
	// completed or cancelled booking.
	ErrTerminalAssignment = errors.New("cannot assign provider to a completed or cancelled booking")

	// ErrMissingBusiness is returned when the tenant scope is absent.
	ErrMissingBusiness = errors.New("business id is required")
)
