package domain

import cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"

// RecordVersion is the layout tag written at the front of every encoded record.
const RecordVersion = "v1"

// EncryptedRecord is a sealed secret together with what is needed to open it again.
//
// Ciphertext is nonce || ciphertext || tag as produced by the cipher. KeyID names the master
// key that sealed it, so entries survive rotation of the active key.
type EncryptedRecord struct {
	Algorithm  cryptoDomain.Algorithm
	KeyID      string
	Ciphertext []byte
}
