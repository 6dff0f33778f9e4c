package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
)

type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

func TestRunCreateMasterKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("kms-mode", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return([]byte("encrypted"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateMasterKey(ctx, mockService, logger, &out, "test-key", "localsecrets", "base64key://...")
		require.NoError(t, err)

		encoded := base64.StdEncoding.EncodeToString([]byte("encrypted"))
		assert.Contains(t, out.String(), `MASTER_KEYS="test-key:`+encoded+`"`)
		assert.Contains(t, out.String(), `KMS_KEY_URI="base64key://..."`)
		assert.Contains(t, out.String(), `ACTIVE_MASTER_KEY_ID="test-key"`)

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("plaintext-mode", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateMasterKey(ctx, nil, logger, &out, "local", "", "")
		require.NoError(t, err)

		match := regexp.MustCompile(`MASTER_KEYS="local:([^"]+)"`).FindStringSubmatch(out.String())
		require.Len(t, match, 2)

		key, err := base64.StdEncoding.DecodeString(match[1])
		require.NoError(t, err)
		assert.Len(t, key, 32)
		assert.NotContains(t, out.String(), "KMS_KEY_URI")
	})

	t.Run("default-key-id", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateMasterKey(ctx, nil, logger, &out, "", "", "")
		require.NoError(t, err)
		assert.Regexp(t, `ACTIVE_MASTER_KEY_ID="master-key-\d{4}-\d{2}-\d{2}"`, out.String())
	})

	t.Run("missing-parameters", func(t *testing.T) {
		err := RunCreateMasterKey(ctx, nil, logger, &bytes.Buffer{}, "", "localsecrets", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required together")
	})

	t.Run("kms-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "invalid").Return(nil, errors.New("kms error"))

		err := RunCreateMasterKey(ctx, mockService, logger, &bytes.Buffer{}, "test-key", "localsecrets", "invalid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("encrypt-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return(nil, errors.New("denied"))
		mockKeeper.On("Close").Return(nil)

		err := RunCreateMasterKey(ctx, mockService, logger, &bytes.Buffer{}, "test-key", "localsecrets", "base64key://...")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to encrypt master key with KMS")
		mockKeeper.AssertExpectations(t)
	})
}
