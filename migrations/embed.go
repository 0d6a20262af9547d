// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests and server bootstrap.
// Each supported dialect keeps its own directory of numbered migrations.
package migrations

import (
	"embed"
	"io/fs"
)

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Postgres returns the migrations for the Postgres backend, rooted so that
// goose sees the *.sql files at the top level.
func Postgres() fs.FS {
	return mustSub("postgres")
}

// SQLite returns the migrations for the bundled SQLite backend.
func SQLite() fs.FS {
	return mustSub("sqlite")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(FS, dir)
	if err != nil {
		// Only reachable if the embed pattern above is changed without the directory.
		panic("migrations: " + err.Error())
	}
	return sub
}
