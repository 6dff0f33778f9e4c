package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/allisson/keychain/migrations"
)

// NewMigrate builds a migrator over db using the schema embedded for driver.
// The caller must Close it.
func NewMigrate(db *sql.DB, driver string) (*migrate.Migrate, error) {
	var (
		dir      string
		dbDriver migratedb.Driver
		err      error
	)

	switch driver {
	case DriverPostgres:
		dir = "postgresql"
		dbDriver, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	case DriverMySQL:
		dir = "mysql"
		dbDriver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case DriverSQLite:
		dir = "sqlite"
		dbDriver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migration db driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, driver, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending migration. Already applied migrations are skipped.
//
// The migrator is not closed here because closing it would also close db.
func RunMigrations(db *sql.DB, driver string) error {
	m, err := NewMigrate(db, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
