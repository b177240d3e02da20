// Package migrations embeds the goose migrations of the vocabulary dataset,
// one directory per SQL dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql
var sqliteFiles embed.FS

//go:embed postgres/*.sql
var postgresFiles embed.FS

// SQLite returns the migrations for the SQLite sink.
func SQLite() fs.FS { return mustSub(sqliteFiles, "sqlite") }

// Postgres returns the migrations for the PostgreSQL sink.
func Postgres() fs.FS { return mustSub(postgresFiles, "postgres") }

func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
