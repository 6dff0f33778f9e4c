package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
)

// KeyringAccount is the keystore account under which the master key is saved.
const KeyringAccount = "master-key"

// KeyringKeyProvider keeps a single master key in the operating system keystore
// (macOS Keychain, Windows Credential Manager, Secret Service on Linux).
//
// The key is generated and saved on first use. Its key ID is the keystore service name,
// so entries sealed under one namespace never resolve a key from another.
type KeyringKeyProvider struct {
	Service string
	Logger  *slog.Logger
}

// Load implements KeyProvider.
func (p *KeyringKeyProvider) Load(_ context.Context) (*cryptoDomain.MasterKeyChain, error) {
	encoded, err := keyring.Get(p.Service, KeyringAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		encoded, err = p.generate()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read master key from keyring: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", cryptoDomain.ErrInvalidMasterKeyBase64, p.Service, err)
	}
	defer cryptoDomain.Zero(key)

	mkc := cryptoDomain.NewMasterKeyChain(p.Service)
	if err := mkc.Add(p.Service, key); err != nil {
		return nil, err
	}
	return mkc, nil
}

func (p *KeyringKeyProvider) generate() (string, error) {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	encoded := base64.StdEncoding.EncodeToString(key)
	if err := keyring.Set(p.Service, KeyringAccount, encoded); err != nil {
		return "", err
	}

	if p.Logger != nil {
		p.Logger.Info("generated master key in OS keyring", slog.String("service", p.Service))
	}
	return encoded, nil
}
