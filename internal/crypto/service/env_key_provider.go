package service

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
)

// EnvKeyProvider loads the master key chain from MASTER_KEYS / ACTIVE_MASTER_KEY_ID values.
//
// When KMSKeyURI is set every MASTER_KEYS value is a KMS ciphertext and is unwrapped through
// the keeper before use. Otherwise values are the raw base64 keys.
type EnvKeyProvider struct {
	MasterKeys  string
	ActiveKeyID string
	KMSKeyURI   string
	KMS         KMSService
	Logger      *slog.Logger
}

// Load implements KeyProvider.
func (p *EnvKeyProvider) Load(ctx context.Context) (*cryptoDomain.MasterKeyChain, error) {
	if p.KMSKeyURI == "" {
		if p.Logger != nil {
			p.Logger.Warn("loading plaintext master keys, configure KMS_KEY_URI for production use")
		}
		return cryptoDomain.ParseMasterKeyChain(p.MasterKeys, p.ActiveKeyID, nil)
	}

	keeper, err := p.KMS.OpenKeeper(ctx, p.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil && p.Logger != nil {
			p.Logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	return cryptoDomain.ParseMasterKeyChain(
		p.MasterKeys,
		p.ActiveKeyID,
		func(id string, material []byte) ([]byte, error) {
			key, err := keeper.Decrypt(ctx, material)
			if err != nil {
				return nil, fmt.Errorf("failed to decrypt master key %s: %w", id, err)
			}
			return key, nil
		},
	)
}
