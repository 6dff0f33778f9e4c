package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
	cryptoService "github.com/allisson/keychain/internal/crypto/service"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

// CipherEngine seals keychain secrets with the active master key of a MasterKeyChain.
//
// A nil key chain is allowed: the engine then reports itself unavailable and every Encrypt
// and Decrypt fails with ErrCipherUnavailable.
type CipherEngine struct {
	manager   cryptoService.AEADManager
	keyChain  *cryptoDomain.MasterKeyChain
	algorithm cryptoDomain.Algorithm
}

// NewCipherEngine creates a CipherEngine that seals new records with algorithm.
func NewCipherEngine(
	manager cryptoService.AEADManager,
	keyChain *cryptoDomain.MasterKeyChain,
	algorithm cryptoDomain.Algorithm,
) *CipherEngine {
	return &CipherEngine{
		manager:   manager,
		keyChain:  keyChain,
		algorithm: algorithm,
	}
}

// IsAvailable implements Cipher.
func (e *CipherEngine) IsAvailable() bool {
	if e.keyChain == nil {
		return false
	}
	masterKey, ok := e.keyChain.Active()
	if !ok {
		return false
	}
	_, err := e.manager.CreateCipher(masterKey.Key, e.algorithm)
	return err == nil
}

// Encrypt implements Cipher.
func (e *CipherEngine) Encrypt(
	plaintext []byte,
	tag vaultDomain.EntityTag,
) (*vaultDomain.EncryptedRecord, error) {
	if e.keyChain == nil {
		return nil, vaultDomain.ErrCipherUnavailable
	}
	masterKey, ok := e.keyChain.Active()
	if !ok {
		return nil, vaultDomain.ErrCipherUnavailable
	}

	aead, err := e.manager.CreateCipher(masterKey.Key, e.algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vaultDomain.ErrCipherUnavailable, err)
	}

	sealed, err := aead.Seal(plaintext, tag.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vaultDomain.ErrEncryptionFailed, err)
	}

	return &vaultDomain.EncryptedRecord{
		Algorithm:  e.algorithm,
		KeyID:      masterKey.ID,
		Ciphertext: sealed,
	}, nil
}

// Decrypt implements Cipher. The record's own algorithm and key ID are used, so entries
// sealed before a rotation or an algorithm change stay readable.
func (e *CipherEngine) Decrypt(
	record *vaultDomain.EncryptedRecord,
	tag vaultDomain.EntityTag,
) ([]byte, error) {
	if e.keyChain == nil {
		return nil, vaultDomain.ErrCipherUnavailable
	}
	masterKey, ok := e.keyChain.Get(record.KeyID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrMasterKeyNotFound, record.KeyID)
	}

	aead, err := e.manager.CreateCipher(masterKey.Key, record.Algorithm)
	if err != nil {
		return nil, err
	}

	return aead.Open(record.Ciphertext, tag.Bytes())
}

// IsCurrent implements Cipher.
func (e *CipherEngine) IsCurrent(record *vaultDomain.EncryptedRecord) bool {
	if e.keyChain == nil {
		return false
	}
	return record.KeyID == e.keyChain.ActiveMasterKeyID() && record.Algorithm == e.algorithm
}
