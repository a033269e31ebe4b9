// Package migrations embeds the versioned SQL schema for each storage driver.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// SQLite returns the SQLite migration directory.
func SQLite() (fs.FS, error) {
	return fs.Sub(FS, "sqlite")
}

// Postgres returns the PostgreSQL migration directory.
func Postgres() (fs.FS, error) {
	return fs.Sub(FS, "postgres")
}
