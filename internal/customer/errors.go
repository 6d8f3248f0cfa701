package customer

import "errors"

var (
	// ErrNotFound indicates the customer does not exist in the business scope.
	ErrNotFound = errors.New("customer: not found")
)
