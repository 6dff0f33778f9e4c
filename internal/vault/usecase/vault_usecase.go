package usecase

import (
	"context"
	"errors"
	"log/slog"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
	vaultService "github.com/allisson/keychain/internal/vault/service"
)

// vaultUseCase implements VaultUseCase.
//
// Operations on the same key are not serialized. Each store call is atomic, so concurrent
// sets resolve to the last write, but a get racing a reset may observe either order.
type vaultUseCase struct {
	store  CredentialStore
	cipher vaultService.Cipher
	codec  vaultService.Codec
	binder vaultDomain.Binder
	strict bool
	logger *slog.Logger
}

// NewVaultUseCase creates a VaultUseCase.
//
// With strict set, an unavailable cipher fails set and get before the store is touched.
// Otherwise unavailability is only logged and the cipher's own errors decide the outcome.
func NewVaultUseCase(
	store CredentialStore,
	cipher vaultService.Cipher,
	codec vaultService.Codec,
	binder vaultDomain.Binder,
	strict bool,
	logger *slog.Logger,
) VaultUseCase {
	return &vaultUseCase{
		store:  store,
		cipher: cipher,
		codec:  codec,
		binder: binder,
		strict: strict,
		logger: logger,
	}
}

func (v *vaultUseCase) SetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account, password string,
) (string, error) {
	if account == "" || password == "" {
		return "", vaultDomain.ErrInvalidCredentialInput
	}

	if err := v.checkAvailability(); err != nil {
		return "", err
	}

	key := vaultDomain.NewCredentialKey(service, account)

	record, err := v.cipher.Encrypt([]byte(password), v.binder.Bind(key))
	if err != nil {
		v.logger.Error("failed to encrypt keychain entry",
			slog.String("storage_key", key.StorageKey()),
			slog.Any("error", err),
		)
		return "", err
	}

	if err := v.store.Put(ctx, key, v.codec.Encode(record)); err != nil {
		return "", err
	}

	v.logger.Debug("keychain entry saved", slog.String("storage_key", key.StorageKey()))
	return vaultDomain.SavedMessage, nil
}

func (v *vaultUseCase) GetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account string,
) (string, error) {
	if err := v.checkAvailability(); err != nil {
		return "", err
	}

	key := vaultDomain.NewCredentialKey(service, account)

	text, err := v.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrCredentialNotFound) {
			v.logger.Warn("no keychain entry found", slog.String("storage_key", key.StorageKey()))
			return "", &vaultDomain.EntryNotFoundError{Service: key.Service}
		}
		return "", err
	}

	record, err := v.codec.Decode(text)
	if err != nil {
		v.logger.Error("malformed keychain entry",
			slog.String("storage_key", key.StorageKey()),
			slog.Any("error", err),
		)
		return "", err
	}

	plaintext, err := v.cipher.Decrypt(record, v.binder.Bind(key))
	if err != nil {
		v.logger.Error("failed to decrypt keychain entry",
			slog.String("storage_key", key.StorageKey()),
			slog.Any("error", err),
		)
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	return string(plaintext), nil
}

func (v *vaultUseCase) ResetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account string,
) (string, error) {
	key := vaultDomain.NewCredentialKey(service, account)

	if err := v.store.Delete(ctx, key); err != nil {
		return "", err
	}

	v.logger.Debug("keychain entry reset", slog.String("storage_key", key.StorageKey()))
	return vaultDomain.ResetMessage, nil
}

func (v *vaultUseCase) SetInternetCredentialsForServer(
	ctx context.Context,
	server, account, password string,
) (string, error) {
	return v.SetGenericPasswordForService(ctx, &server, account, password)
}

func (v *vaultUseCase) GetInternetCredentialsForServer(
	ctx context.Context,
	server, account string,
) (string, error) {
	return v.GetGenericPasswordForService(ctx, &server, account)
}

func (v *vaultUseCase) ResetInternetCredentialsForServer(
	ctx context.Context,
	server, account string,
) (string, error) {
	return v.ResetGenericPasswordForService(ctx, &server, account)
}

func (v *vaultUseCase) checkAvailability() error {
	if v.cipher.IsAvailable() {
		return nil
	}

	v.logger.Error("crypto is unavailable", slog.Bool("strict", v.strict))
	if v.strict {
		return vaultDomain.ErrCipherUnavailable
	}
	return nil
}
