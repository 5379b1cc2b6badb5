package errors

import (
	"errors"
	"fmt"
)

// Validation failures: caller's fault, safe to detail.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWeakPassword     = errors.New("password does not meet strength requirements")
)

// Conflict failures.
var ErrEmailAlreadyInUse = errors.New("email already in use")

// Authentication failures. The HTTP layer returns a single generic
// message for all of these so a caller cannot tell which check failed.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrTooManyLoginAttempts = errors.New("too many failed login attempts")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

// ErrStorage wraps collaborator failures before they cross the service
// boundary; the raw driver error stays inside the wrap chain.
var ErrStorage = errors.New("storage failure")

// StorageError tags a collaborator failure with the operation that hit
// it. Matchable with errors.Is(err, ErrStorage).
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
