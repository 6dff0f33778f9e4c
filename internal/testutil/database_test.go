package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupSQLiteDB(t *testing.T) {
	db := SetupSQLiteDB(t)
	assert.NoError(t, db.Ping())
	assert.Equal(t, 0, CountEntries(t, db))

	_, err := db.Exec(
		`INSERT INTO keychain_entries (namespace, service, account, storage_key, record) VALUES ('ns', 's', 'a', 's:a', 'r')`,
	)
	assert.NoError(t, err)
	assert.Equal(t, 1, CountEntries(t, db))
}

func TestSetupSQLiteDB_Isolated(t *testing.T) {
	db := SetupSQLiteDB(t)
	assert.Equal(t, 0, CountEntries(t, db))
}
