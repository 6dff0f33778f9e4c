package commands

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keychain.db")

		require.NoError(t, RunMigrations(logger, "sqlite", path))
		require.NoError(t, RunMigrations(logger, "sqlite", path), "second run must be a no-op")
	})

	t.Run("invalid-driver", func(t *testing.T) {
		err := RunMigrations(logger, "invalid", "postgres://localhost")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to connect to database")
	})
}
