package domain

import (
	"github.com/allisson/keychain/internal/errors"
)

// Cryptographic error definitions. They wrap the standard kinds from internal/errors so the
// HTTP layer can map them without importing this package.
var (
	// ErrUnsupportedAlgorithm indicates the requested cipher is not aes-gcm or chacha20-poly1305.
	ErrUnsupportedAlgorithm = errors.Sentinel(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Sentinel(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates an authentication failure while opening a sealed entry.
	//
	// Wrong key, wrong associated data, tampering and truncation all surface as this one error
	// so callers cannot tell them apart.
	ErrDecryptionFailed = errors.Sentinel(errors.ErrInvalidInput, "decryption failed")

	// ErrMasterKeysNotSet indicates MASTER_KEYS is empty.
	ErrMasterKeysNotSet = errors.Sentinel(errors.ErrUnavailable, "MASTER_KEYS not set")

	// ErrActiveMasterKeyIDNotSet indicates ACTIVE_MASTER_KEY_ID is empty.
	ErrActiveMasterKeyIDNotSet = errors.Sentinel(errors.ErrUnavailable, "ACTIVE_MASTER_KEY_ID not set")

	// ErrInvalidMasterKeysFormat indicates a MASTER_KEYS entry that is not "id:base64".
	ErrInvalidMasterKeysFormat = errors.Sentinel(errors.ErrInvalidInput, "invalid MASTER_KEYS format")

	// ErrInvalidMasterKeyBase64 indicates a MASTER_KEYS value that is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.Sentinel(errors.ErrInvalidInput, "invalid master key base64")

	// ErrActiveMasterKeyNotFound indicates ACTIVE_MASTER_KEY_ID names a key missing from MASTER_KEYS.
	ErrActiveMasterKeyNotFound = errors.Sentinel(errors.ErrUnavailable, "active master key not found")

	// ErrMasterKeyNotFound indicates a sealed entry references a key the chain does not hold.
	ErrMasterKeyNotFound = errors.Sentinel(errors.ErrUnavailable, "master key not found")

	// ErrUnsupportedKMSKeyURI indicates a KMS_KEY_URI whose scheme has no registered keeper.
	ErrUnsupportedKMSKeyURI = errors.Sentinel(errors.ErrInvalidInput, "unsupported KMS key URI")
)
