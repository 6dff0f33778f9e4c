package service

import (
	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
)

// aeadConstructors maps each supported algorithm to the constructor of its cipher.
var aeadConstructors = map[cryptoDomain.Algorithm]func(key []byte) (AEAD, error){
	cryptoDomain.AESGCM:   func(key []byte) (AEAD, error) { return NewAESGCM(key) },
	cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) { return NewChaCha20Poly1305(key) },
}

// AEADManagerService builds AEAD ciphers from a master key.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns the alg cipher keyed with key. The key must be KeySize bytes.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	newAEAD, ok := aeadConstructors[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	return newAEAD(key)
}
