package domain

import (
	"github.com/allisson/keychain/internal/errors"
)

// Status messages returned by the vault operations.
const (
	SavedMessage    = "keychain saved the data"
	ResetMessage    = "keychain password was reset"
	NotFoundMessage = "no entry found for service: "
)

// Vault error definitions.
var (
	// ErrInvalidCredentialInput is returned by set when the account or secret is empty.
	ErrInvalidCredentialInput = errors.Sentinel(errors.ErrInvalidInput, "you passed empty or null username/password")

	// ErrCredentialNotFound is returned by the store when no entry exists for a key.
	ErrCredentialNotFound = errors.Sentinel(errors.ErrNotFound, "credential not found")

	// ErrMalformedRecord is returned when a stored value cannot be decoded.
	ErrMalformedRecord = errors.Sentinel(errors.ErrInvalidInput, "malformed keychain record")

	// ErrCipherUnavailable is returned when no usable cipher or master key is configured.
	ErrCipherUnavailable = errors.Sentinel(errors.ErrUnavailable, "crypto is unavailable")

	// ErrEncryptionFailed is returned when sealing a secret fails.
	ErrEncryptionFailed = errors.Sentinel(errors.ErrUnavailable, "encryption failed")
)

// EntryNotFoundError is returned by get when the store has no entry for the key. Its message
// names the service; it matches ErrCredentialNotFound under errors.Is.
type EntryNotFoundError struct {
	Service string
}

func (e *EntryNotFoundError) Error() string {
	return NotFoundMessage + e.Service
}

func (e *EntryNotFoundError) Unwrap() error {
	return ErrCredentialNotFound
}
