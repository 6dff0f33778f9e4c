package usecase

import (
	"crypto/rand"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
	cryptoService "github.com/allisson/keychain/internal/crypto/service"
	"github.com/allisson/keychain/internal/testutil"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
	"github.com/allisson/keychain/internal/vault/repository"
	vaultService "github.com/allisson/keychain/internal/vault/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string {
	return &s
}

// newKeyChain returns a chain holding a random key for every id, with activeID active.
func newKeyChain(t *testing.T, activeID string, ids ...string) *cryptoDomain.MasterKeyChain {
	t.Helper()
	mkc := cryptoDomain.NewMasterKeyChain(activeID)
	for _, id := range ids {
		key := make([]byte, cryptoDomain.KeySize)
		_, err := rand.Read(key)
		require.NoError(t, err)
		require.NoError(t, mkc.Add(id, key))
	}
	t.Cleanup(mkc.Close)
	return mkc
}

func newEngine(t *testing.T) *vaultService.CipherEngine {
	t.Helper()
	return vaultService.NewCipherEngine(
		cryptoService.NewAEADManager(),
		newKeyChain(t, "k1", "k1"),
		cryptoDomain.AESGCM,
	)
}

type sqliteVault struct {
	vault VaultUseCase
	store *repository.SQLiteCredentialRepository
	db    *sql.DB
}

func newSQLiteVault(t *testing.T, cipher vaultService.Cipher) sqliteVault {
	t.Helper()
	db := testutil.SetupSQLiteDB(t)
	store := repository.NewSQLiteCredentialRepository(db, vaultDomain.DefaultNamespace)
	vault := NewVaultUseCase(
		store,
		cipher,
		vaultService.NewRecordCodec(),
		vaultDomain.NewBinder(vaultDomain.DefaultNamespace),
		false,
		discardLogger(),
	)
	return sqliteVault{vault: vault, store: store, db: db}
}
