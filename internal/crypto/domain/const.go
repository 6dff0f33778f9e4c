package domain

import "fmt"

// KeySize is the length in bytes of every key accepted by the vault ciphers.
const KeySize = 32

// Algorithm represents the AEAD cipher used to seal keychain entries.
//
// Both algorithms take a 256-bit key, a 12-byte nonce and append a 16-byte authentication
// tag, so a record sealed by one of them is the same size as one sealed by the other.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred where AES hardware acceleration is missing.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration or record value into an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, value)
	}
}
