package usecase

import (
	"context"
	"log/slog"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
	"github.com/allisson/keychain/internal/database"
	apperrors "github.com/allisson/keychain/internal/errors"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
	vaultService "github.com/allisson/keychain/internal/vault/service"
)

type keyRotationUseCase struct {
	txManager database.TxManager
	store     CredentialStore
	cipher    vaultService.Cipher
	codec     vaultService.Codec
	binder    vaultDomain.Binder
	logger    *slog.Logger
}

// NewKeyRotationUseCase creates a KeyRotationUseCase.
func NewKeyRotationUseCase(
	txManager database.TxManager,
	store CredentialStore,
	cipher vaultService.Cipher,
	codec vaultService.Codec,
	binder vaultDomain.Binder,
	logger *slog.Logger,
) KeyRotationUseCase {
	return &keyRotationUseCase{
		txManager: txManager,
		store:     store,
		cipher:    cipher,
		codec:     codec,
		binder:    binder,
		logger:    logger,
	}
}

// RewrapCredentials runs in one transaction: either every stale entry is re-sealed or none.
// Each entry is swapped only if it still holds the record that was listed, so a concurrent
// set is never overwritten with the older password.
func (k *keyRotationUseCase) RewrapCredentials(ctx context.Context) (int, error) {
	if !k.cipher.IsAvailable() {
		return 0, vaultDomain.ErrCipherUnavailable
	}

	rewrapped := 0
	err := k.txManager.WithTx(ctx, func(txCtx context.Context) error {
		entries, err := k.store.List(txCtx)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			updated, err := k.rewrap(entry)
			if err != nil {
				return apperrors.Wrapf(err, "failed to rewrap %s", entry.Key.StorageKey())
			}
			if updated == "" {
				continue
			}

			// A set that committed after List wins over the rewrap.
			swapped, err := k.store.Replace(txCtx, entry.Key, entry.Record, updated)
			if err != nil {
				return err
			}
			if !swapped {
				k.logger.Debug("keychain entry changed during rewrap, skipping",
					slog.String("storage_key", entry.Key.StorageKey()),
				)
				continue
			}
			rewrapped++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	k.logger.Info("keychain entries rewrapped", slog.Int("count", rewrapped))
	return rewrapped, nil
}

// rewrap returns the re-sealed record text, or "" when entry is already current.
func (k *keyRotationUseCase) rewrap(entry vaultDomain.StoredEntry) (string, error) {
	record, err := k.codec.Decode(entry.Record)
	if err != nil {
		return "", err
	}
	if k.cipher.IsCurrent(record) {
		return "", nil
	}

	tag := k.binder.Bind(entry.Key)
	plaintext, err := k.cipher.Decrypt(record, tag)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	sealed, err := k.cipher.Encrypt(plaintext, tag)
	if err != nil {
		return "", err
	}
	return k.codec.Encode(sealed), nil
}
