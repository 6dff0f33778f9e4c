package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	vaultUseCase "github.com/allisson/keychain/internal/vault/usecase"
)

// RunRewrapCredentials re-seals every keychain entry that is not sealed with the active
// master key and algorithm. Run it after changing ACTIVE_MASTER_KEY_ID or VAULT_ALGORITHM,
// and keep the previous master key in MASTER_KEYS until it finishes.
func RunRewrapCredentials(
	ctx context.Context,
	keyRotationUseCase vaultUseCase.KeyRotationUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("starting credential rewrap")

	count, err := keyRotationUseCase.RewrapCredentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to rewrap credentials: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{"rewrapped": count}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully rewrapped %d credential(s)\n", count)
	}

	logger.Info("credential rewrap completed", slog.Int("rewrapped", count))
	return nil
}
