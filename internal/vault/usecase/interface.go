// Package usecase implements the keychain vault operations on top of a credential store and
// a cipher engine.
package usecase

import (
	"context"

	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

// CredentialStore persists encoded records by credential key within one namespace.
type CredentialStore interface {
	// Put inserts or overwrites the record for key.
	Put(ctx context.Context, key vaultDomain.CredentialKey, record string) error

	// Replace overwrites the record for key with replacement only if the stored record is
	// still current, and reports whether it did. A missing or changed entry is left alone.
	Replace(ctx context.Context, key vaultDomain.CredentialKey, current, replacement string) (bool, error)

	// Get returns the record for key or ErrCredentialNotFound.
	Get(ctx context.Context, key vaultDomain.CredentialKey) (string, error)

	// Delete removes the record for key. Deleting a missing entry succeeds.
	Delete(ctx context.Context, key vaultDomain.CredentialKey) error

	// List returns every entry of the namespace.
	List(ctx context.Context) ([]vaultDomain.StoredEntry, error)
}

// VaultUseCase is the public keychain operation surface.
//
// The internet variants are aliases: a server is stored exactly as a service would be.
type VaultUseCase interface {
	SetGenericPasswordForService(ctx context.Context, service *string, account, password string) (string, error)
	GetGenericPasswordForService(ctx context.Context, service *string, account string) (string, error)
	ResetGenericPasswordForService(ctx context.Context, service *string, account string) (string, error)

	SetInternetCredentialsForServer(ctx context.Context, server, account, password string) (string, error)
	GetInternetCredentialsForServer(ctx context.Context, server, account string) (string, error)
	ResetInternetCredentialsForServer(ctx context.Context, server, account string) (string, error)
}

// KeyRotationUseCase re-seals stored entries after a master key or algorithm change.
type KeyRotationUseCase interface {
	// RewrapCredentials re-seals every entry not sealed with the active key and algorithm
	// and returns how many entries were rewritten.
	RewrapCredentials(ctx context.Context) (int, error)
}

// AsyncVault runs VaultUseCase operations asynchronously. Each call returns a channel that
// receives exactly one Result and is then closed.
type AsyncVault interface {
	SetGenericPasswordForService(ctx context.Context, service *string, account, password string) <-chan vaultDomain.Result
	GetGenericPasswordForService(ctx context.Context, service *string, account string) <-chan vaultDomain.Result
	ResetGenericPasswordForService(ctx context.Context, service *string, account string) <-chan vaultDomain.Result

	SetInternetCredentialsForServer(ctx context.Context, server, account, password string) <-chan vaultDomain.Result
	GetInternetCredentialsForServer(ctx context.Context, server, account string) <-chan vaultDomain.Result
	ResetInternetCredentialsForServer(ctx context.Context, server, account string) <-chan vaultDomain.Result
}
