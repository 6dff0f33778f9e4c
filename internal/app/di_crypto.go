package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
	cryptoService "github.com/allisson/keychain/internal/crypto/service"
	"github.com/allisson/keychain/internal/metrics"
	vaultService "github.com/allisson/keychain/internal/vault/service"
)

// Key provider names accepted by the KEY_PROVIDER setting.
const (
	KeyProviderEnv     = "env"
	KeyProviderKeyring = "keyring"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	kms, _ := c.kmsService.get(infallible(cryptoService.NewKMSService))
	return kms
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	manager, _ := c.aeadManager.get(infallible(func() cryptoService.AEADManager {
		return cryptoService.NewAEADManager()
	}))
	return manager
}

// KeyProvider returns the provider selected by the KEY_PROVIDER setting.
func (c *Container) KeyProvider() (cryptoService.KeyProvider, error) {
	return c.keyProvider.get(c.initKeyProvider)
}

// MasterKeyChain returns the master key chain loaded from the configured provider.
func (c *Container) MasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	return c.masterKeyChain.get(c.initMasterKeyChain)
}

// CipherEngine returns the cipher engine used by the vault.
//
// A master key chain that fails to load does not fail the engine: it is built without keys,
// reports itself unavailable and every encrypt or decrypt fails until the process restarts
// with working key material.
func (c *Container) CipherEngine() (*vaultService.CipherEngine, error) {
	return c.cipherEngine.get(c.initCipherEngine)
}

// initKeyProvider creates the key provider for the configured source.
func (c *Container) initKeyProvider() (cryptoService.KeyProvider, error) {
	switch c.config.KeyProvider {
	case KeyProviderEnv, "":
		return &cryptoService.EnvKeyProvider{
			MasterKeys:  c.config.MasterKeys,
			ActiveKeyID: c.config.ActiveMasterKeyID,
			KMSKeyURI:   c.config.KMSKeyURI,
			KMS:         c.KMSService(),
			Logger:      c.Logger(),
		}, nil
	case KeyProviderKeyring:
		return &cryptoService.KeyringKeyProvider{
			Service: c.config.VaultNamespace,
			Logger:  c.Logger(),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported key provider: %s", c.config.KeyProvider)
	}
}

// initMasterKeyChain loads the master key chain through the key provider.
func (c *Container) initMasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	provider, err := c.KeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get key provider for master key chain: %w", err)
	}

	keyChain, err := provider.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load master key chain: %w", err)
	}
	return keyChain, nil
}

// initCipherEngine creates the cipher engine and registers its availability gauge.
func (c *Container) initCipherEngine() (*vaultService.CipherEngine, error) {
	logger := c.Logger()

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.VaultAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vault algorithm: %w", err)
	}

	keyChain, err := c.MasterKeyChain()
	if err != nil {
		logger.Error("crypto is unavailable", slog.Any("error", err))
		keyChain = nil
	}

	engine := vaultService.NewCipherEngine(c.AEADManager(), keyChain, algorithm)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for cipher engine: %w", err)
	}
	if provider != nil {
		if err := metrics.RegisterCipherAvailability(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
			engine.IsAvailable,
		); err != nil {
			return nil, fmt.Errorf("failed to register cipher availability metric: %w", err)
		}
	}

	return engine, nil
}
