// Package errors provides the error kinds shared by every keychain layer. Domain packages wrap
// these kinds with their own context so handlers can map a failure to a status code without
// knowing which component produced it.
package errors

import (
	"errors"
	"fmt"
)

// Standard error kinds.
var (
	// ErrNotFound indicates the requested entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the request collides with existing state.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates caller input, or stored data, failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates a required capability (cipher, key material, storage) is missing.
	ErrUnavailable = errors.New("unavailable")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Sentinel defines a domain error whose message is exactly message and which matches kind
// under Is. Use it for package-level error values surfaced to callers verbatim.
func Sentinel(kind error, message string) error {
	return &sentinel{kind: kind, message: message}
}

type sentinel struct {
	kind    error
	message string
}

func (s *sentinel) Error() string { return s.message }

func (s *sentinel) Unwrap() error { return s.kind }

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
