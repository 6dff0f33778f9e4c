package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/keychain/internal/errors"
)

func TestEntryNotFoundError(t *testing.T) {
	var err error = &EntryNotFoundError{Service: ""}
	assert.Equal(t, "no entry found for service: ", err.Error())
	assert.ErrorIs(t, err, ErrCredentialNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var target *EntryNotFoundError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "no entry found for service: github.com", (&EntryNotFoundError{Service: "github.com"}).Error())
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidCredentialInput, apperrors.ErrInvalidInput)
	assert.ErrorIs(t, ErrMalformedRecord, apperrors.ErrInvalidInput)
	assert.ErrorIs(t, ErrCipherUnavailable, apperrors.ErrUnavailable)
	assert.ErrorIs(t, ErrEncryptionFailed, apperrors.ErrUnavailable)
	assert.Equal(t, "you passed empty or null username/password", ErrInvalidCredentialInput.Error())
}
