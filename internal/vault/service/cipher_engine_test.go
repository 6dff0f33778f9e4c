package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
	cryptoService "github.com/allisson/keychain/internal/crypto/service"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

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

func TestCipherEngine_IsAvailable(t *testing.T) {
	manager := cryptoService.NewAEADManager()

	t.Run("Success_Available", func(t *testing.T) {
		engine := NewCipherEngine(manager, newKeyChain(t, "k1", "k1"), cryptoDomain.AESGCM)
		assert.True(t, engine.IsAvailable())
	})

	t.Run("Unavailable_NilKeyChain", func(t *testing.T) {
		engine := NewCipherEngine(manager, nil, cryptoDomain.AESGCM)
		assert.False(t, engine.IsAvailable())
	})

	t.Run("Unavailable_NoActiveKey", func(t *testing.T) {
		engine := NewCipherEngine(manager, newKeyChain(t, "missing", "k1"), cryptoDomain.AESGCM)
		assert.False(t, engine.IsAvailable())
	})

	t.Run("Unavailable_UnsupportedAlgorithm", func(t *testing.T) {
		engine := NewCipherEngine(manager, newKeyChain(t, "k1", "k1"), cryptoDomain.Algorithm("rot13"))
		assert.False(t, engine.IsAvailable())
	})
}

func TestCipherEngine_EncryptDecrypt(t *testing.T) {
	manager := cryptoService.NewAEADManager()
	binder := vaultDomain.NewBinder("RN_KEYCHAIN")
	alice := binder.Bind(vaultDomain.CredentialKey{Service: "svc", Account: "alice"})
	bob := binder.Bind(vaultDomain.CredentialKey{Service: "svc", Account: "bob"})

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			engine := NewCipherEngine(manager, newKeyChain(t, "k1", "k1"), alg)

			t.Run("Success_RoundTrip", func(t *testing.T) {
				record, err := engine.Encrypt([]byte("s3cr3t"), alice)
				require.NoError(t, err)
				assert.Equal(t, alg, record.Algorithm)
				assert.Equal(t, "k1", record.KeyID)

				plaintext, err := engine.Decrypt(record, alice)
				require.NoError(t, err)
				assert.Equal(t, []byte("s3cr3t"), plaintext)
			})

			t.Run("Success_NonDeterministic", func(t *testing.T) {
				r1, err := engine.Encrypt([]byte("s3cr3t"), alice)
				require.NoError(t, err)
				r2, err := engine.Encrypt([]byte("s3cr3t"), alice)
				require.NoError(t, err)
				assert.NotEqual(t, r1.Ciphertext, r2.Ciphertext)
			})

			t.Run("Error_TagMismatch", func(t *testing.T) {
				record, err := engine.Encrypt([]byte("s3cr3t"), alice)
				require.NoError(t, err)

				plaintext, err := engine.Decrypt(record, bob)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
				assert.Nil(t, plaintext)
			})

			t.Run("Error_Tampered", func(t *testing.T) {
				record, err := engine.Encrypt([]byte("s3cr3t"), alice)
				require.NoError(t, err)
				record.Ciphertext[len(record.Ciphertext)/2] ^= 0xFF

				_, err = engine.Decrypt(record, alice)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("Error_Truncated", func(t *testing.T) {
				record, err := engine.Encrypt([]byte("s3cr3t"), alice)
				require.NoError(t, err)
				record.Ciphertext = record.Ciphertext[:4]

				_, err = engine.Decrypt(record, alice)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})
		})
	}
}

func TestCipherEngine_Rotation(t *testing.T) {
	manager := cryptoService.NewAEADManager()
	tag := vaultDomain.NewBinder("").Bind(vaultDomain.CredentialKey{Account: "alice"})

	oldChain := newKeyChain(t, "old", "old")
	oldRecord, err := NewCipherEngine(manager, oldChain, cryptoDomain.AESGCM).Encrypt([]byte("s3cr3t"), tag)
	require.NoError(t, err)

	oldKey, _ := oldChain.Get("old")
	rotated := newKeyChain(t, "new", "new")
	require.NoError(t, rotated.Add("old", oldKey.Key))

	engine := NewCipherEngine(manager, rotated, cryptoDomain.ChaCha20)

	t.Run("Success_OldRecordStillReadable", func(t *testing.T) {
		plaintext, err := engine.Decrypt(oldRecord, tag)
		require.NoError(t, err)
		assert.Equal(t, []byte("s3cr3t"), plaintext)
	})

	t.Run("Success_NewRecordUsesActiveKey", func(t *testing.T) {
		record, err := engine.Encrypt([]byte("s3cr3t"), tag)
		require.NoError(t, err)
		assert.Equal(t, "new", record.KeyID)
		assert.Equal(t, cryptoDomain.ChaCha20, record.Algorithm)
	})

	t.Run("Success_IsCurrent", func(t *testing.T) {
		assert.False(t, engine.IsCurrent(oldRecord))

		record, err := engine.Encrypt([]byte("s3cr3t"), tag)
		require.NoError(t, err)
		assert.True(t, engine.IsCurrent(record))
	})

	t.Run("Error_UnknownKeyID", func(t *testing.T) {
		record := *oldRecord
		record.KeyID = "gone"
		_, err := engine.Decrypt(&record, tag)
		assert.ErrorIs(t, err, cryptoDomain.ErrMasterKeyNotFound)
	})
}

func TestCipherEngine_Unavailable(t *testing.T) {
	engine := NewCipherEngine(cryptoService.NewAEADManager(), nil, cryptoDomain.AESGCM)
	tag := vaultDomain.EntityTag("RN_KEYCHAIN::alice")

	_, err := engine.Encrypt([]byte("s3cr3t"), tag)
	assert.ErrorIs(t, err, vaultDomain.ErrCipherUnavailable)

	_, err = engine.Decrypt(&vaultDomain.EncryptedRecord{KeyID: "k1"}, tag)
	assert.ErrorIs(t, err, vaultDomain.ErrCipherUnavailable)
}
