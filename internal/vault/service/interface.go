// Package service implements the keychain's cipher engine and record codec.
package service

import (
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

// Cipher seals secrets to an entity tag.
type Cipher interface {
	// IsAvailable reports whether a master key and cipher are usable. Advisory only: Encrypt
	// and Decrypt still return their own errors.
	IsAvailable() bool

	// Encrypt seals plaintext under a fresh nonce, authenticating tag.
	Encrypt(plaintext []byte, tag vaultDomain.EntityTag) (*vaultDomain.EncryptedRecord, error)

	// Decrypt opens record, which must have been sealed under tag.
	Decrypt(record *vaultDomain.EncryptedRecord, tag vaultDomain.EntityTag) ([]byte, error)

	// IsCurrent reports whether record was sealed with the active key and algorithm.
	IsCurrent(record *vaultDomain.EncryptedRecord) bool
}

// Codec converts encrypted records to and from their persisted text form.
type Codec interface {
	Encode(record *vaultDomain.EncryptedRecord) string
	Decode(text string) (*vaultDomain.EncryptedRecord, error)
}
