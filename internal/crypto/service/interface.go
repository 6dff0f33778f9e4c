// Package service provides the cryptographic primitives behind the keychain: AEAD ciphers,
// KMS keepers and the providers that load master key material.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
)

// AEAD seals and opens byte strings with associated data.
type AEAD interface {
	// Seal encrypts plaintext under a fresh random nonce and returns nonce || ciphertext || tag.
	Seal(plaintext, aad []byte) ([]byte, error)

	// Open reverses Seal. Any mismatch of key, aad or bytes returns ErrDecryptionFailed.
	Open(sealed, aad []byte) ([]byte, error)

	// Overhead is the number of bytes Seal adds to a plaintext.
	Overhead() int
}

// AEADManager creates AEAD ciphers.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyProvider loads the master key chain used to seal keychain entries.
type KeyProvider interface {
	Load(ctx context.Context) (*cryptoDomain.MasterKeyChain, error)
}
