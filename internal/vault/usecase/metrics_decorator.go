package usecase

import (
	"context"
	"time"

	"github.com/allisson/keychain/internal/metrics"
)

const (
	metricsDomain         = "keychain"
	rotationMetricsDomain = "rotation"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with business metrics.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	v.metrics.Observe(ctx, metricsDomain, operation, time.Since(start), err)
}

func (v *vaultUseCaseWithMetrics) SetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account, password string,
) (string, error) {
	start := time.Now()
	message, err := v.next.SetGenericPasswordForService(ctx, service, account, password)
	v.record(ctx, "generic_password_set", start, err)
	return message, err
}

func (v *vaultUseCaseWithMetrics) GetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account string,
) (string, error) {
	start := time.Now()
	secret, err := v.next.GetGenericPasswordForService(ctx, service, account)
	v.record(ctx, "generic_password_get", start, err)
	return secret, err
}

func (v *vaultUseCaseWithMetrics) ResetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account string,
) (string, error) {
	start := time.Now()
	message, err := v.next.ResetGenericPasswordForService(ctx, service, account)
	v.record(ctx, "generic_password_reset", start, err)
	return message, err
}

func (v *vaultUseCaseWithMetrics) SetInternetCredentialsForServer(
	ctx context.Context,
	server, account, password string,
) (string, error) {
	start := time.Now()
	message, err := v.next.SetInternetCredentialsForServer(ctx, server, account, password)
	v.record(ctx, "internet_credentials_set", start, err)
	return message, err
}

func (v *vaultUseCaseWithMetrics) GetInternetCredentialsForServer(
	ctx context.Context,
	server, account string,
) (string, error) {
	start := time.Now()
	secret, err := v.next.GetInternetCredentialsForServer(ctx, server, account)
	v.record(ctx, "internet_credentials_get", start, err)
	return secret, err
}

func (v *vaultUseCaseWithMetrics) ResetInternetCredentialsForServer(
	ctx context.Context,
	server, account string,
) (string, error) {
	start := time.Now()
	message, err := v.next.ResetInternetCredentialsForServer(ctx, server, account)
	v.record(ctx, "internet_credentials_reset", start, err)
	return message, err
}

type keyRotationUseCaseWithMetrics struct {
	next    KeyRotationUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyRotationUseCaseWithMetrics wraps a KeyRotationUseCase with metrics recording.
func NewKeyRotationUseCaseWithMetrics(useCase KeyRotationUseCase, m metrics.BusinessMetrics) KeyRotationUseCase {
	return &keyRotationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (k *keyRotationUseCaseWithMetrics) RewrapCredentials(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := k.next.RewrapCredentials(ctx)
	k.metrics.Observe(ctx, rotationMetricsDomain, "rewrap_credentials", time.Since(start), err)
	return count, err
}
