package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrRateLimited       = errors.New("too many requests")
	ErrSessionExpired    = errors.New("session expired or invalid")
	ErrSessionLimit      = errors.New("active session limit reached")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
