package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(t.Name()))
	db, err := Connect(Config{Driver: DriverSQLite, ConnectionString: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"file:keychain.db?"+sqlitePragmas,
		SQLiteDSN("keychain.db"),
	)
	assert.Equal(t, "file:x?mode=memory", SQLiteDSN("file:x?mode=memory"))
}

func TestConnect(t *testing.T) {
	t.Run("Success_SQLiteFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keychain.db")
		db, err := Connect(Config{
			Driver:           DriverSQLite,
			ConnectionString: path,
			ConnMaxLifetime:  5 * time.Minute,
		})
		require.NoError(t, err)
		defer func() { assert.NoError(t, db.Close()) }()

		assert.Equal(t, 1, db.Stats().MaxOpenConnections)

		var mode string
		require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	})

	t.Run("Error_UnsupportedDriver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle", ConnectionString: "x"})
		assert.ErrorContains(t, err, "unsupported database driver")
		assert.Nil(t, db)
	})
}

func TestRunMigrations(t *testing.T) {
	t.Run("Success_Idempotent", func(t *testing.T) {
		db := openMemoryDB(t)

		require.NoError(t, RunMigrations(db, DriverSQLite))
		require.NoError(t, RunMigrations(db, DriverSQLite))

		var count int
		err := db.QueryRow(`SELECT COUNT(*) FROM keychain_entries`).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("Error_UnsupportedDriver", func(t *testing.T) {
		err := RunMigrations(openMemoryDB(t), "oracle")
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestWithTx(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, RunMigrations(db, DriverSQLite))
	txManager := NewTxManager(db)
	ctx := context.Background()

	insert := func(ctx context.Context, account string) error {
		_, err := GetTx(ctx, db).ExecContext(ctx,
			`INSERT INTO keychain_entries (namespace, service, account, storage_key, record) VALUES ('ns', '', ?, ?, 'r')`,
			account, ":"+account,
		)
		return err
	}
	count := func() int {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM keychain_entries`).Scan(&n))
		return n
	}

	t.Run("Success_Commit", func(t *testing.T) {
		err := txManager.WithTx(ctx, func(ctx context.Context) error {
			assert.IsType(t, &sql.Tx{}, ctx.Value(txKey{}))
			return insert(ctx, "alice")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("Error_RollbackOnError", func(t *testing.T) {
		err := txManager.WithTx(ctx, func(ctx context.Context) error {
			require.NoError(t, insert(ctx, "bob"))
			return assert.AnError
		})
		assert.Equal(t, assert.AnError, err)
		assert.Equal(t, 1, count())
	})

	t.Run("Error_RollbackOnPanic", func(t *testing.T) {
		assert.PanicsWithValue(t, "boom", func() {
			_ = txManager.WithTx(ctx, func(ctx context.Context) error {
				require.NoError(t, insert(ctx, "carol"))
				panic("boom")
			})
		})
		assert.Equal(t, 1, count())
	})

	t.Run("Error_BeginCanceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		err := txManager.WithTx(canceled, func(context.Context) error { return nil })
		assert.ErrorContains(t, err, "failed to begin transaction")
	})

	t.Run("Success_GetTxWithoutTransaction", func(t *testing.T) {
		assert.Same(t, db, GetTx(ctx, db))
	})
}
