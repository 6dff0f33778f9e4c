// Package validation provides custom validation rules for the application.
package validation

import (
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/keychain/internal/errors"
)

// MaxIdentifierLength is the longest service, server or account name, in runes, that fits the
// keychain_entries key columns.
const MaxIdentifierLength = 255

// MaxPasswordLength bounds a stored password, in bytes, so its sealed record fits a TEXT column.
const MaxPasswordLength = 32 * 1024

// WrapValidationError wraps validation errors as domain ErrInvalidInput, keeping the message.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Sentinel(apperrors.ErrInvalidInput, err.Error())
}

// NoControlChars validates that a string holds no control characters, NUL included.
var NoControlChars = validation.NewStringRuleWithError(
	func(s string) bool {
		for _, r := range s {
			if unicode.IsControl(r) {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_no_control_chars", "must not contain control characters"),
)

// Identifier is the rule set for service, server and account names.
var Identifier = []validation.Rule{
	validation.RuneLength(0, MaxIdentifierLength),
	NoControlChars,
}
