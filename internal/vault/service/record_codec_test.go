package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

func TestRecordCodec_Bytes(t *testing.T) {
	codec := NewRecordCodec()

	t.Run("Success_StandardBase64", func(t *testing.T) {
		assert.Equal(t, "+/8=", codec.EncodeBytes([]byte{0xFB, 0xFF}))

		b, err := codec.DecodeBytes("+/8=")
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFB, 0xFF}, b)
	})

	t.Run("Success_Empty", func(t *testing.T) {
		b, err := codec.DecodeBytes(codec.EncodeBytes(nil))
		require.NoError(t, err)
		assert.Empty(t, b)
	})

	t.Run("Error_Malformed", func(t *testing.T) {
		for _, text := range []string{"%%%", "YWJj*", "-_8="} {
			_, err := codec.DecodeBytes(text)
			assert.ErrorIs(t, err, vaultDomain.ErrMalformedRecord, text)
		}
	})
}

func TestRecordCodec_Record(t *testing.T) {
	codec := NewRecordCodec()
	record := &vaultDomain.EncryptedRecord{
		Algorithm:  cryptoDomain.ChaCha20,
		KeyID:      "prod:2026",
		Ciphertext: []byte{0x00, 0x01, 0xFE, 0xFF},
	}

	t.Run("Success_Layout", func(t *testing.T) {
		assert.Equal(t, "v1:chacha20-poly1305:prod:2026:AAH+/w==", codec.Encode(record))
	})

	t.Run("Success_Decode", func(t *testing.T) {
		decoded, err := codec.Decode(codec.Encode(record))
		require.NoError(t, err)
		assert.Equal(t, record, decoded)
	})

	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "unknown version", text: "v2:aes-gcm:k1:AAAA"},
		{name: "bare base64", text: "AAAA"},
		{name: "missing algorithm", text: "v1:aes-gcm"},
		{name: "unsupported algorithm", text: "v1:des:k1:AAAA"},
		{name: "missing key id", text: "v1:aes-gcm::AAAA"},
		{name: "missing payload separator", text: "v1:aes-gcm:AAAA"},
		{name: "bad base64", text: "v1:aes-gcm:k1:not base64"},
	}
	for _, tt := range tests {
		t.Run("Error_"+tt.name, func(t *testing.T) {
			decoded, err := codec.Decode(tt.text)
			assert.ErrorIs(t, err, vaultDomain.ErrMalformedRecord)
			assert.Nil(t, decoded)
		})
	}
}
