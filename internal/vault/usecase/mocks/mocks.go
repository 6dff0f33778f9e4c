// Package mocks provides testify mocks for the vault use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

// MockCredentialStore is a mock implementation of CredentialStore.
type MockCredentialStore struct {
	mock.Mock
}

// Put mocks the Put method of CredentialStore.
func (m *MockCredentialStore) Put(ctx context.Context, key vaultDomain.CredentialKey, record string) error {
	args := m.Called(ctx, key, record)
	return args.Error(0)
}

// Replace mocks the Replace method of CredentialStore.
func (m *MockCredentialStore) Replace(
	ctx context.Context,
	key vaultDomain.CredentialKey,
	current, replacement string,
) (bool, error) {
	args := m.Called(ctx, key, current, replacement)
	return args.Bool(0), args.Error(1)
}

// Get mocks the Get method of CredentialStore.
func (m *MockCredentialStore) Get(ctx context.Context, key vaultDomain.CredentialKey) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// Delete mocks the Delete method of CredentialStore.
func (m *MockCredentialStore) Delete(ctx context.Context, key vaultDomain.CredentialKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// List mocks the List method of CredentialStore.
func (m *MockCredentialStore) List(ctx context.Context) ([]vaultDomain.StoredEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vaultDomain.StoredEntry), args.Error(1)
}

// MockVaultUseCase is a mock implementation of VaultUseCase.
type MockVaultUseCase struct {
	mock.Mock
}

// SetGenericPasswordForService mocks the VaultUseCase method.
func (m *MockVaultUseCase) SetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account, password string,
) (string, error) {
	args := m.Called(ctx, service, account, password)
	return args.String(0), args.Error(1)
}

// GetGenericPasswordForService mocks the VaultUseCase method.
func (m *MockVaultUseCase) GetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account string,
) (string, error) {
	args := m.Called(ctx, service, account)
	return args.String(0), args.Error(1)
}

// ResetGenericPasswordForService mocks the VaultUseCase method.
func (m *MockVaultUseCase) ResetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account string,
) (string, error) {
	args := m.Called(ctx, service, account)
	return args.String(0), args.Error(1)
}

// SetInternetCredentialsForServer mocks the VaultUseCase method.
func (m *MockVaultUseCase) SetInternetCredentialsForServer(
	ctx context.Context,
	server, account, password string,
) (string, error) {
	args := m.Called(ctx, server, account, password)
	return args.String(0), args.Error(1)
}

// GetInternetCredentialsForServer mocks the VaultUseCase method.
func (m *MockVaultUseCase) GetInternetCredentialsForServer(
	ctx context.Context,
	server, account string,
) (string, error) {
	args := m.Called(ctx, server, account)
	return args.String(0), args.Error(1)
}

// ResetInternetCredentialsForServer mocks the VaultUseCase method.
func (m *MockVaultUseCase) ResetInternetCredentialsForServer(
	ctx context.Context,
	server, account string,
) (string, error) {
	args := m.Called(ctx, server, account)
	return args.String(0), args.Error(1)
}

// MockKeyRotationUseCase is a mock implementation of KeyRotationUseCase.
type MockKeyRotationUseCase struct {
	mock.Mock
}

// RewrapCredentials mocks the KeyRotationUseCase method.
func (m *MockKeyRotationUseCase) RewrapCredentials(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
