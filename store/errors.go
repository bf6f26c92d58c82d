// api/store/errors.go
package store

import (
	"errors"
	"fmt"
)

// Failure categories. Handlers pick the HTTP status with errors.Is instead
// of matching error strings.
var (
	// ErrValidation marks a client-fixable bad request.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized marks an API key that resolves to no tenant.
	ErrUnauthorized = errors.New("invalid api key")
	// ErrNotFound marks a missing tenant or record where one was expected.
	ErrNotFound = errors.New("not found")
	// ErrStore marks an underlying store failure; details are logged, not
	// returned to the caller.
	ErrStore = errors.New("store failure")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
