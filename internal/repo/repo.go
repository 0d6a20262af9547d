// Package repo contains all database access logic for the Flight Search API.
// Each resource has its own file with an interface and a Postgres implementation;
// the bundled SQLite backend lives next to it in a *_sqlite.go file.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// sqlDB is the database/sql counterpart of db, satisfied by *sql.DB and *sql.Tx.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows, allowing
// the scan helpers to be reused for single-row and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles the repositories of one storage backend.
type Repos struct {
	Airports    AirportRepo
	Favorites   FavoriteRepo
	Preferences PreferenceRepo
}

// NewPostgresRepos builds every repository on top of a Postgres connection.
func NewPostgresRepos(db db) Repos {
	return Repos{
		Airports:    NewAirportRepo(db),
		Favorites:   NewFavoriteRepo(db),
		Preferences: NewPreferenceRepo(db),
	}
}

// NewSQLiteRepos builds every repository on top of a SQLite database.
func NewSQLiteRepos(db sqlDB) Repos {
	return Repos{
		Airports:    NewSQLiteAirportRepo(db),
		Favorites:   NewSQLiteFavoriteRepo(db),
		Preferences: NewSQLitePreferenceRepo(db),
	}
}

// likeEscaper escapes the LIKE wildcards so user input matches literally.
// Queries using it must declare ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching any value containing s.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
