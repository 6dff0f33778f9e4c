package testutil

import (
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/keychain/internal/database"
)

// Environment variables holding the DSNs of external test databases. Tests that need one are
// skipped when it is unset.
const (
	PostgresDSNEnv = "TEST_POSTGRES_DSN"
	MySQLDSNEnv    = "TEST_MYSQL_DSN"
)

// SetupPostgresDB returns a migrated PostgreSQL database from TEST_POSTGRES_DSN, or skips t.
// Entries are deleted before and after the test.
func SetupPostgresDB(t *testing.T) (*sql.DB, string) {
	return setupExternalDB(t, database.DriverPostgres, PostgresDSNEnv)
}

// SetupMySQLDB returns a migrated MySQL database from TEST_MYSQL_DSN, or skips t.
// Entries are deleted before and after the test.
func SetupMySQLDB(t *testing.T) (*sql.DB, string) {
	return setupExternalDB(t, database.DriverMySQL, MySQLDSNEnv)
}

func setupExternalDB(t *testing.T, driver, env string) (*sql.DB, string) {
	t.Helper()

	dsn := os.Getenv(env)
	if dsn == "" {
		t.Skipf("%s is not set", env)
	}

	db, err := database.Connect(database.Config{
		Driver:             driver,
		ConnectionString:   dsn,
		MaxOpenConnections: 5,
		MaxIdleConnections: 2,
	})
	require.NoError(t, err, "failed to connect to %s", driver)

	require.NoError(t, database.RunMigrations(db, driver), "failed to run migrations")
	cleanupEntries(t, db)

	t.Cleanup(func() {
		cleanupEntries(t, db)
		_ = db.Close()
	})
	return db, dsn
}

func cleanupEntries(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec(`DELETE FROM keychain_entries`)
	require.NoError(t, err, "failed to clean keychain_entries")
}
