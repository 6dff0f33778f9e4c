// Package database opens the SQL connection pool behind the credential store and applies
// its schema. PostgreSQL, MySQL and SQLite are supported.
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// sqlitePragmas enables WAL, waits on locks instead of failing and keeps durability at NORMAL.
const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"

// Config holds database connection configuration.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect opens and pings a connection pool for cfg.
//
// For SQLite the connection string may be a plain file path; it is turned into a DSN with
// the default pragmas. SQLite pools are limited to one open connection so writes serialize
// in the process instead of failing with "database is locked".
func Connect(cfg Config) (*sql.DB, error) {
	dsn := cfg.ConnectionString
	switch cfg.Driver {
	case DriverPostgres, DriverMySQL:
	case DriverSQLite:
		dsn = SQLiteDSN(cfg.ConnectionString)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConnections)
		db.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// SQLiteDSN turns a file path into a modernc.org/sqlite DSN with the default pragmas.
// Values that already carry a "file:" prefix or pragmas are returned unchanged.
func SQLiteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, "_pragma=") {
		return path
	}
	return fmt.Sprintf("file:%s?%s", path, sqlitePragmas)
}
