// Package repository implements the credential store over PostgreSQL, MySQL and SQLite.
//
// Every repository is bound to one namespace, which is the store partition. Entries are keyed
// by (namespace, service, account); storage_key holds the "<service>:<account>" entry name.
// Each method is a single statement, so every operation is atomic per key.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/keychain/internal/database"
	apperrors "github.com/allisson/keychain/internal/errors"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

// PostgreSQLCredentialRepository implements the credential store for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db        *sql.DB
	namespace string
}

// NewPostgreSQLCredentialRepository creates a repository for namespace.
func NewPostgreSQLCredentialRepository(db *sql.DB, namespace string) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db, namespace: namespace}
}

// Put inserts or overwrites the record for key.
func (p *PostgreSQLCredentialRepository) Put(
	ctx context.Context,
	key vaultDomain.CredentialKey,
	record string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO keychain_entries (namespace, service, account, storage_key, record)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (namespace, service, account)
			  DO UPDATE SET record = EXCLUDED.record, updated_at = NOW()`

	_, err := querier.ExecContext(ctx, query, p.namespace, key.Service, key.Account, key.StorageKey(), record)
	if err != nil {
		return apperrors.Wrap(err, "failed to put keychain entry")
	}
	return nil
}

// Replace swaps the record for key to replacement only while it still equals current.
func (p *PostgreSQLCredentialRepository) Replace(
	ctx context.Context,
	key vaultDomain.CredentialKey,
	current, replacement string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE keychain_entries SET record = $5, updated_at = NOW()
			  WHERE namespace = $1 AND service = $2 AND account = $3 AND record = $4`

	result, err := querier.ExecContext(ctx, query, p.namespace, key.Service, key.Account, current, replacement)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to replace keychain entry")
	}
	return replaced(result)
}

// Get returns the record for key or ErrCredentialNotFound.
func (p *PostgreSQLCredentialRepository) Get(
	ctx context.Context,
	key vaultDomain.CredentialKey,
) (string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT record FROM keychain_entries
			  WHERE namespace = $1 AND service = $2 AND account = $3`

	var record string
	err := querier.QueryRowContext(ctx, query, p.namespace, key.Service, key.Account).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", vaultDomain.ErrCredentialNotFound
		}
		return "", apperrors.Wrap(err, "failed to get keychain entry")
	}
	return record, nil
}

// Delete removes the record for key. Deleting a missing entry is not an error.
func (p *PostgreSQLCredentialRepository) Delete(
	ctx context.Context,
	key vaultDomain.CredentialKey,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM keychain_entries
			  WHERE namespace = $1 AND service = $2 AND account = $3`

	if _, err := querier.ExecContext(ctx, query, p.namespace, key.Service, key.Account); err != nil {
		return apperrors.Wrap(err, "failed to delete keychain entry")
	}
	return nil
}

// List returns every entry of the namespace ordered by service and account.
func (p *PostgreSQLCredentialRepository) List(ctx context.Context) ([]vaultDomain.StoredEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT service, account, record FROM keychain_entries
			  WHERE namespace = $1
			  ORDER BY service, account`

	rows, err := querier.QueryContext(ctx, query, p.namespace)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list keychain entries")
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) (entries []vaultDomain.StoredEntry, err error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = apperrors.Wrap(closeErr, "failed to close rows")
		}
	}()

	entries = make([]vaultDomain.StoredEntry, 0)
	for rows.Next() {
		var entry vaultDomain.StoredEntry
		if err := rows.Scan(&entry.Key.Service, &entry.Key.Account, &entry.Record); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan keychain entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate keychain entries")
	}
	return entries, nil
}

// replaced reports whether a conditional update touched its row.
func replaced(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}
	return n == 1, nil
}
