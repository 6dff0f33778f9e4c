package app

import (
	"fmt"

	"github.com/allisson/keychain/internal/database"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
	vaultHTTP "github.com/allisson/keychain/internal/vault/http"
	vaultRepository "github.com/allisson/keychain/internal/vault/repository"
	vaultService "github.com/allisson/keychain/internal/vault/service"
	vaultUseCase "github.com/allisson/keychain/internal/vault/usecase"
)

// CredentialStore returns the credential store for the configured database driver.
func (c *Container) CredentialStore() (vaultUseCase.CredentialStore, error) {
	return c.credentialStore.get(c.initCredentialStore)
}

// VaultUseCase returns the vault use case, decorated with business metrics.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	return c.vaultUseCase.get(c.initVaultUseCase)
}

// KeyRotationUseCase returns the key rotation use case, decorated with business metrics.
func (c *Container) KeyRotationUseCase() (vaultUseCase.KeyRotationUseCase, error) {
	return c.keyRotationUseCase.get(c.initKeyRotationUseCase)
}

// Dispatcher returns the asynchronous front of the vault.
func (c *Container) Dispatcher() (*vaultUseCase.Dispatcher, error) {
	return c.dispatcher.get(c.initDispatcher)
}

// KeychainHandler returns the HTTP handler for keychain operations.
func (c *Container) KeychainHandler() (*vaultHTTP.KeychainHandler, error) {
	return c.keychainHandler.get(c.initKeychainHandler)
}

// initCredentialStore creates the repository matching the database driver.
func (c *Container) initCredentialStore() (vaultUseCase.CredentialStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential store: %w", err)
	}

	namespace := c.config.VaultNamespace
	switch c.config.DBDriver {
	case database.DriverPostgres:
		return vaultRepository.NewPostgreSQLCredentialRepository(db, namespace), nil
	case database.DriverMySQL:
		return vaultRepository.NewMySQLCredentialRepository(db, namespace), nil
	case database.DriverSQLite:
		return vaultRepository.NewSQLiteCredentialRepository(db, namespace), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVaultUseCase creates the vault use case.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	store, err := c.CredentialStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential store for vault use case: %w", err)
	}

	cipher, err := c.CipherEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher engine for vault use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
	}

	useCase := vaultUseCase.NewVaultUseCase(
		store,
		cipher,
		vaultService.NewRecordCodec(),
		vaultDomain.NewBinder(c.config.VaultNamespace),
		c.config.VaultStrictAvailability,
		c.Logger(),
	)

	return vaultUseCase.NewVaultUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initKeyRotationUseCase creates the key rotation use case.
func (c *Container) initKeyRotationUseCase() (vaultUseCase.KeyRotationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for key rotation use case: %w", err)
	}

	store, err := c.CredentialStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential store for key rotation use case: %w", err)
	}

	cipher, err := c.CipherEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher engine for key rotation use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for key rotation use case: %w", err)
	}

	useCase := vaultUseCase.NewKeyRotationUseCase(
		txManager,
		store,
		cipher,
		vaultService.NewRecordCodec(),
		vaultDomain.NewBinder(c.config.VaultNamespace),
		c.Logger(),
	)

	return vaultUseCase.NewKeyRotationUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initDispatcher creates the dispatcher over the vault use case.
func (c *Container) initDispatcher() (*vaultUseCase.Dispatcher, error) {
	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for dispatcher: %w", err)
	}
	return vaultUseCase.NewDispatcher(useCase, int64(c.config.VaultWorkers), c.Logger()), nil
}

// initKeychainHandler creates the keychain HTTP handler.
func (c *Container) initKeychainHandler() (*vaultHTTP.KeychainHandler, error) {
	dispatcher, err := c.Dispatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatcher for keychain handler: %w", err)
	}
	return vaultHTTP.NewKeychainHandler(dispatcher, c.Logger()), nil
}
