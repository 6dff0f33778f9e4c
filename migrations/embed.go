// Package migrations embeds the SQL schema for every supported database driver.
package migrations

import "embed"

// FS holds one directory of golang-migrate files per driver: postgresql, mysql and sqlite.
//
//go:embed postgresql/*.sql mysql/*.sql sqlite/*.sql
var FS embed.FS
