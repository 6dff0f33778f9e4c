// Package testutil provides helpers for tests that need a migrated database.
package testutil

import (
	"database/sql"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/keychain/internal/database"
)

// SetupSQLiteDB returns a migrated in-memory SQLite database private to t.
//
// The database is named after t.Name() and uses a shared cache, so every connection of the
// pool sees the same data while parallel tests stay isolated. It is closed on cleanup.
func SetupSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)",
		url.PathEscape(t.Name()),
	)

	db, err := database.Connect(database.Config{
		Driver:           database.DriverSQLite,
		ConnectionString: dsn,
	})
	require.NoError(t, err, "failed to open sqlite database")

	require.NoError(t, database.RunMigrations(db, database.DriverSQLite), "failed to run migrations")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CountEntries returns the number of rows in keychain_entries.
func CountEntries(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM keychain_entries`).Scan(&n))
	return n
}
