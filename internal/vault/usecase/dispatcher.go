package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	apperrors "github.com/allisson/keychain/internal/errors"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

var _ AsyncVault = (*Dispatcher)(nil)

// ErrDispatcherClosed is delivered to operations submitted after Close.
var ErrDispatcherClosed = apperrors.Sentinel(apperrors.ErrUnavailable, "keychain dispatcher is closed")

// Dispatcher runs vault operations off the caller's goroutine on a bounded set of workers.
//
// Every submitted operation yields a channel that receives exactly one Result and is then
// closed, whether the operation succeeds, fails, is cancelled while waiting for a worker or
// panics. The channel is buffered, so callers may abandon it without leaking the worker.
type Dispatcher struct {
	vault  VaultUseCase
	sem    *semaphore.Weighted
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher running at most workers operations at once.
func NewDispatcher(vault VaultUseCase, workers int64, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		vault:  vault,
		sem:    semaphore.NewWeighted(workers),
		logger: logger,
	}
}

// SetGenericPasswordForService runs VaultUseCase.SetGenericPasswordForService.
func (d *Dispatcher) SetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account, password string,
) <-chan vaultDomain.Result {
	return d.submit(ctx, "generic_password_set", func(ctx context.Context) (string, error) {
		return d.vault.SetGenericPasswordForService(ctx, service, account, password)
	})
}

// GetGenericPasswordForService runs VaultUseCase.GetGenericPasswordForService.
func (d *Dispatcher) GetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account string,
) <-chan vaultDomain.Result {
	return d.submit(ctx, "generic_password_get", func(ctx context.Context) (string, error) {
		return d.vault.GetGenericPasswordForService(ctx, service, account)
	})
}

// ResetGenericPasswordForService runs VaultUseCase.ResetGenericPasswordForService.
func (d *Dispatcher) ResetGenericPasswordForService(
	ctx context.Context,
	service *string,
	account string,
) <-chan vaultDomain.Result {
	return d.submit(ctx, "generic_password_reset", func(ctx context.Context) (string, error) {
		return d.vault.ResetGenericPasswordForService(ctx, service, account)
	})
}

// SetInternetCredentialsForServer runs VaultUseCase.SetInternetCredentialsForServer.
func (d *Dispatcher) SetInternetCredentialsForServer(
	ctx context.Context,
	server, account, password string,
) <-chan vaultDomain.Result {
	return d.submit(ctx, "internet_credentials_set", func(ctx context.Context) (string, error) {
		return d.vault.SetInternetCredentialsForServer(ctx, server, account, password)
	})
}

// GetInternetCredentialsForServer runs VaultUseCase.GetInternetCredentialsForServer.
func (d *Dispatcher) GetInternetCredentialsForServer(
	ctx context.Context,
	server, account string,
) <-chan vaultDomain.Result {
	return d.submit(ctx, "internet_credentials_get", func(ctx context.Context) (string, error) {
		return d.vault.GetInternetCredentialsForServer(ctx, server, account)
	})
}

// ResetInternetCredentialsForServer runs VaultUseCase.ResetInternetCredentialsForServer.
func (d *Dispatcher) ResetInternetCredentialsForServer(
	ctx context.Context,
	server, account string,
) <-chan vaultDomain.Result {
	return d.submit(ctx, "internet_credentials_reset", func(ctx context.Context) (string, error) {
		return d.vault.ResetInternetCredentialsForServer(ctx, server, account)
	})
}

// Close stops accepting operations and waits for the ones in flight.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) submit(
	ctx context.Context,
	operation string,
	op func(ctx context.Context) (string, error),
) <-chan vaultDomain.Result {
	out := make(chan vaultDomain.Result, 1)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		out <- vaultDomain.Failure(ErrDispatcherClosed)
		close(out)
		return out
	}

	d.wg.Add(1)
	go d.run(ctx, operation, op, out)

	return out
}

func (d *Dispatcher) run(
	ctx context.Context,
	operation string,
	op func(ctx context.Context) (string, error),
	out chan<- vaultDomain.Result,
) {
	defer d.wg.Done()
	defer close(out)

	if err := d.sem.Acquire(ctx, 1); err != nil {
		out <- vaultDomain.Failure(err)
		return
	}
	defer d.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("keychain operation panicked",
				slog.String("operation", operation),
				slog.Any("panic", r),
			)
			out <- vaultDomain.Failure(fmt.Errorf("keychain operation %s panicked", operation))
		}
	}()

	value, err := op(ctx)
	if err != nil {
		out <- vaultDomain.Failure(err)
		return
	}
	out <- vaultDomain.Success(value)
}
