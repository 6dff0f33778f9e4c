package commands

import (
	"context"
	"fmt"
	"io"

	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
	vaultUseCase "github.com/allisson/keychain/internal/vault/usecase"
)

// CredentialTarget names the keychain entry a credential command works on.
//
// With Internet set, Service is the server of an internet credential and an absent value
// means the empty server.
type CredentialTarget struct {
	Service  *string
	Account  string
	Internet bool
}

// RunSetCredential stores password for target. An empty password is read as one line from
// streams.Reader so it does not have to appear in the process arguments.
func RunSetCredential(
	ctx context.Context,
	vault vaultUseCase.AsyncVault,
	streams IOTuple,
	target CredentialTarget,
	password, format string,
) error {
	if password == "" {
		line, err := readLine(streams.Reader)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = line
	}

	var results <-chan vaultDomain.Result
	if target.Internet {
		server := vaultDomain.NormalizeService(target.Service)
		results = vault.SetInternetCredentialsForServer(ctx, server, target.Account, password)
	} else {
		results = vault.SetGenericPasswordForService(ctx, target.Service, target.Account, password)
	}

	return writeResult(streams.Writer, <-results, format)
}

// RunGetCredential prints the password stored for target.
func RunGetCredential(
	ctx context.Context,
	vault vaultUseCase.AsyncVault,
	writer io.Writer,
	target CredentialTarget,
	format string,
) error {
	var results <-chan vaultDomain.Result
	if target.Internet {
		server := vaultDomain.NormalizeService(target.Service)
		results = vault.GetInternetCredentialsForServer(ctx, server, target.Account)
	} else {
		results = vault.GetGenericPasswordForService(ctx, target.Service, target.Account)
	}

	return writeResult(writer, <-results, format)
}

// RunResetCredential deletes the entry for target. Deleting a missing entry succeeds.
func RunResetCredential(
	ctx context.Context,
	vault vaultUseCase.AsyncVault,
	writer io.Writer,
	target CredentialTarget,
	format string,
) error {
	var results <-chan vaultDomain.Result
	if target.Internet {
		server := vaultDomain.NormalizeService(target.Service)
		results = vault.ResetInternetCredentialsForServer(ctx, server, target.Account)
	} else {
		results = vault.ResetGenericPasswordForService(ctx, target.Service, target.Account)
	}

	return writeResult(writer, <-results, format)
}

// writeResult prints result and returns its error so the process exits non-zero on failure.
// The json format always prints the {"error","result"} pair.
func writeResult(writer io.Writer, result vaultDomain.Result, format string) error {
	if format == "json" {
		if err := writeJSON(writer, result); err != nil {
			return err
		}
	} else if result.OK() {
		_, _ = fmt.Fprintln(writer, result.Value)
	}

	if !result.OK() {
		return result.Err()
	}
	return nil
}
