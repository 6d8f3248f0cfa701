package provider

import "errors"

var (
	// ErrNotFound is returned when no provider matches the given id.
	ErrNotFound = errors.New("provider not found")
)
