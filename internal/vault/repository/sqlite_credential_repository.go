package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/keychain/internal/database"
	apperrors "github.com/allisson/keychain/internal/errors"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

// SQLiteCredentialRepository implements the credential store for SQLite.
type SQLiteCredentialRepository struct {
	db        *sql.DB
	namespace string
}

// NewSQLiteCredentialRepository creates a repository for namespace.
func NewSQLiteCredentialRepository(db *sql.DB, namespace string) *SQLiteCredentialRepository {
	return &SQLiteCredentialRepository{db: db, namespace: namespace}
}

// Put inserts or overwrites the record for key.
func (s *SQLiteCredentialRepository) Put(
	ctx context.Context,
	key vaultDomain.CredentialKey,
	record string,
) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO keychain_entries (namespace, service, account, storage_key, record)
			  VALUES (?, ?, ?, ?, ?)
			  ON CONFLICT (namespace, service, account)
			  DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP`

	_, err := querier.ExecContext(ctx, query, s.namespace, key.Service, key.Account, key.StorageKey(), record)
	if err != nil {
		return apperrors.Wrap(err, "failed to put keychain entry")
	}
	return nil
}

// Replace swaps the record for key to replacement only while it still equals current.
func (s *SQLiteCredentialRepository) Replace(
	ctx context.Context,
	key vaultDomain.CredentialKey,
	current, replacement string,
) (bool, error) {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE keychain_entries SET record = ?, updated_at = CURRENT_TIMESTAMP
			  WHERE namespace = ? AND service = ? AND account = ? AND record = ?`

	result, err := querier.ExecContext(ctx, query, replacement, s.namespace, key.Service, key.Account, current)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to replace keychain entry")
	}
	return replaced(result)
}

// Get returns the record for key or ErrCredentialNotFound.
func (s *SQLiteCredentialRepository) Get(
	ctx context.Context,
	key vaultDomain.CredentialKey,
) (string, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT record FROM keychain_entries
			  WHERE namespace = ? AND service = ? AND account = ?`

	var record string
	err := querier.QueryRowContext(ctx, query, s.namespace, key.Service, key.Account).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", vaultDomain.ErrCredentialNotFound
		}
		return "", apperrors.Wrap(err, "failed to get keychain entry")
	}
	return record, nil
}

// Delete removes the record for key. Deleting a missing entry is not an error.
func (s *SQLiteCredentialRepository) Delete(
	ctx context.Context,
	key vaultDomain.CredentialKey,
) error {
	querier := database.GetTx(ctx, s.db)

	query := `DELETE FROM keychain_entries
			  WHERE namespace = ? AND service = ? AND account = ?`

	if _, err := querier.ExecContext(ctx, query, s.namespace, key.Service, key.Account); err != nil {
		return apperrors.Wrap(err, "failed to delete keychain entry")
	}
	return nil
}

// List returns every entry of the namespace ordered by service and account.
func (s *SQLiteCredentialRepository) List(ctx context.Context) ([]vaultDomain.StoredEntry, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT service, account, record FROM keychain_entries
			  WHERE namespace = ?
			  ORDER BY service, account`

	rows, err := querier.QueryContext(ctx, query, s.namespace)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list keychain entries")
	}
	return scanEntries(rows)
}
