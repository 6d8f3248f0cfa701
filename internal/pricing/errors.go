package pricing

import "errors"

var (
	// ErrNotFound indicates the record does not exist in the tenant scope.
	ErrNotFound = errors.New("pricing: not found")
	// ErrMissingField indicates a required field is empty.
	ErrMissingField = errors.New("pricing: missing required field")
	// ErrDuplicateName indicates the name already exists within the category.
	ErrDuplicateName = errors.New("pricing: duplicate name in category")
	// ErrMissingScope indicates business or industry scope is absent.
	ErrMissingScope = errors.New("pricing: business and industry scope required")
)
