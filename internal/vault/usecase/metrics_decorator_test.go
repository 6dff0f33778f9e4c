package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/keychain/internal/metrics"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
	"github.com/allisson/keychain/internal/vault/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) Observe(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	err error,
) {
	m.Called(ctx, domain, operation, duration, err)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, domain, operation string, err error) {
	m.On("Observe", ctx, domain, operation, mock.AnythingOfType("time.Duration"), err).Once()
}

func TestNewVaultUseCaseWithMetrics(t *testing.T) {
	decorator := NewVaultUseCaseWithMetrics(&mocks.MockVaultUseCase{}, &mockBusinessMetrics{})
	assert.Implements(t, (*VaultUseCase)(nil), decorator)
}

func TestMetricsDecorator(t *testing.T) {
	ctx := context.Background()
	service := strPtr("svc")
	failure := errors.New("boom")

	tests := []struct {
		operation string
		method    string
		args      []any
		call      func(v VaultUseCase) (string, error)
	}{
		{
			operation: "generic_password_set",
			method:    "SetGenericPasswordForService",
			args:      []any{ctx, service, "alice", "s3cr3t"},
			call: func(v VaultUseCase) (string, error) {
				return v.SetGenericPasswordForService(ctx, service, "alice", "s3cr3t")
			},
		},
		{
			operation: "generic_password_get",
			method:    "GetGenericPasswordForService",
			args:      []any{ctx, service, "alice"},
			call: func(v VaultUseCase) (string, error) {
				return v.GetGenericPasswordForService(ctx, service, "alice")
			},
		},
		{
			operation: "generic_password_reset",
			method:    "ResetGenericPasswordForService",
			args:      []any{ctx, service, "alice"},
			call: func(v VaultUseCase) (string, error) {
				return v.ResetGenericPasswordForService(ctx, service, "alice")
			},
		},
		{
			operation: "internet_credentials_set",
			method:    "SetInternetCredentialsForServer",
			args:      []any{ctx, "example.com", "alice", "s3cr3t"},
			call: func(v VaultUseCase) (string, error) {
				return v.SetInternetCredentialsForServer(ctx, "example.com", "alice", "s3cr3t")
			},
		},
		{
			operation: "internet_credentials_get",
			method:    "GetInternetCredentialsForServer",
			args:      []any{ctx, "example.com", "alice"},
			call: func(v VaultUseCase) (string, error) {
				return v.GetInternetCredentialsForServer(ctx, "example.com", "alice")
			},
		},
		{
			operation: "internet_credentials_reset",
			method:    "ResetInternetCredentialsForServer",
			args:      []any{ctx, "example.com", "alice"},
			call: func(v VaultUseCase) (string, error) {
				return v.ResetInternetCredentialsForServer(ctx, "example.com", "alice")
			},
		},
	}

	for _, tt := range tests {
		t.Run("Success_"+tt.operation, func(t *testing.T) {
			useCase := &mocks.MockVaultUseCase{}
			useCase.On(tt.method, tt.args...).Return("ok", nil).Once()
			m := &mockBusinessMetrics{}
			expectMetrics(m, ctx, "keychain", tt.operation, nil)

			value, err := tt.call(NewVaultUseCaseWithMetrics(useCase, m))
			require.NoError(t, err)
			assert.Equal(t, "ok", value)
			useCase.AssertExpectations(t)
			m.AssertExpectations(t)
		})

		t.Run("Error_"+tt.operation, func(t *testing.T) {
			useCase := &mocks.MockVaultUseCase{}
			useCase.On(tt.method, tt.args...).Return("", failure).Once()
			m := &mockBusinessMetrics{}
			expectMetrics(m, ctx, "keychain", tt.operation, failure)

			_, err := tt.call(NewVaultUseCaseWithMetrics(useCase, m))
			assert.ErrorIs(t, err, failure)
			useCase.AssertExpectations(t)
			m.AssertExpectations(t)
		})
	}
}

func TestMetricsDecorator_NotFound(t *testing.T) {
	ctx := context.Background()
	notFound := &vaultDomain.EntryNotFoundError{}
	useCase := &mocks.MockVaultUseCase{}
	useCase.On("GetGenericPasswordForService", ctx, (*string)(nil), "alice").Return("", notFound).Once()
	m := &mockBusinessMetrics{}
	expectMetrics(m, ctx, "keychain", "generic_password_get", notFound)

	_, err := NewVaultUseCaseWithMetrics(useCase, m).GetGenericPasswordForService(ctx, nil, "alice")
	assert.ErrorIs(t, err, vaultDomain.ErrCredentialNotFound)
	assert.Equal(t, metrics.OutcomeNotFound, metrics.Outcome(err))
	m.AssertExpectations(t)
}

func TestKeyRotationMetricsDecorator(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RewrapCredentials", func(t *testing.T) {
		useCase := &mocks.MockKeyRotationUseCase{}
		useCase.On("RewrapCredentials", ctx).Return(4, nil).Once()
		m := &mockBusinessMetrics{}
		expectMetrics(m, ctx, "rotation", "rewrap_credentials", nil)

		count, err := NewKeyRotationUseCaseWithMetrics(useCase, m).RewrapCredentials(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
		m.AssertExpectations(t)
	})

	t.Run("Error_RewrapCredentials", func(t *testing.T) {
		useCase := &mocks.MockKeyRotationUseCase{}
		useCase.On("RewrapCredentials", ctx).Return(0, vaultDomain.ErrCipherUnavailable).Once()
		m := &mockBusinessMetrics{}
		expectMetrics(m, ctx, "rotation", "rewrap_credentials", vaultDomain.ErrCipherUnavailable)

		_, err := NewKeyRotationUseCaseWithMetrics(useCase, m).RewrapCredentials(ctx)
		assert.ErrorIs(t, err, vaultDomain.ErrCipherUnavailable)
		m.AssertExpectations(t)
	})
}
