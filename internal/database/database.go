// Package database opens the application's storage backend and applies its
// schema migrations. Postgres DSNs get a pgx pool; anything else is treated as
// the path of the bundled SQLite database.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers "sqlite" driver for database/sql

	"github.com/pkordes/flight-search/backend/internal/repo"
	"github.com/pkordes/flight-search/backend/migrations"
)

// Dialect names the storage backend behind a Store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// sqlitePragmas are applied to every SQLite connection. busy_timeout lets
// concurrent writers wait for the file lock instead of failing with SQLITE_BUSY.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Store is an open storage backend.
// Pool is set for Postgres; SQL is set for SQLite.
type Store struct {
	Dialect Dialect
	Pool    *pgxpool.Pool
	SQL     *sql.DB

	dsn string
}

// DialectFor reports which backend a DSN selects.
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the backend selected by dsn and verifies it is reachable.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("database.Open: empty DSN")
	}

	switch DialectFor(dsn) {
	case DialectPostgres:
		// New() does not open connections immediately; the Ping below does.
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("database.Open: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("database.Open: ping: %w", err)
		}
		return &Store{Dialect: DialectPostgres, Pool: pool, dsn: dsn}, nil

	default:
		db, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("database.Open: %w", err)
		}
		return &Store{Dialect: DialectSQLite, SQL: db, dsn: dsn}, nil
	}
}

// OpenSQLite opens the SQLite database file at path with the standard pragmas.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if isMemoryDSN(path) {
		// Each connection to an in-memory database gets its own empty copy.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// isMemoryDSN reports whether path names an in-memory SQLite database
// (":memory:", "file::memory:", or a URI with mode=memory).
func isMemoryDSN(path string) bool {
	name, query, _ := strings.Cut(path, "?")
	name = strings.TrimPrefix(name, "file:")
	return name == ":memory:" || strings.Contains(query, "mode=memory")
}

// Repos returns the repositories for this backend.
func (s *Store) Repos() repo.Repos {
	if s.Dialect == DialectPostgres {
		return repo.NewPostgresRepos(s.Pool)
	}
	return repo.NewSQLiteRepos(s.SQL)
}

// Migrate applies all pending migrations for the store's dialect.
func (s *Store) Migrate(ctx context.Context) error {
	if s.Dialect == DialectPostgres {
		// goose drives database/sql, not a pgx pool, so open a short-lived
		// *sql.DB through the pgx stdlib driver just for the migration run.
		db, err := sql.Open("pgx", s.dsn)
		if err != nil {
			return fmt.Errorf("database.Migrate: open: %w", err)
		}
		defer db.Close()
		return Migrate(ctx, DialectPostgres, db)
	}
	return Migrate(ctx, DialectSQLite, s.SQL)
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.Pool != nil {
		return s.Pool.Ping(ctx)
	}
	return s.SQL.PingContext(ctx)
}

// Close releases the backend's connections.
func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.SQL != nil {
		s.SQL.Close()
	}
}

// Migrate applies every pending migration of dialect against db.
func Migrate(ctx context.Context, dialect Dialect, db *sql.DB) error {
	provider, err := NewMigrationProvider(dialect, db)
	if err != nil {
		return fmt.Errorf("database.Migrate: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("database.Migrate: up: %w", err)
	}
	return nil
}

// NewMigrationProvider returns a goose provider over the embedded migrations
// of dialect. Tests use it directly to roll the schema back down.
func NewMigrationProvider(dialect Dialect, db *sql.DB) (*goose.Provider, error) {
	var (
		gd   goose.Dialect
		fsys fs.FS
	)
	switch dialect {
	case DialectPostgres:
		gd, fsys = goose.DialectPostgres, migrations.Postgres()
	case DialectSQLite:
		gd, fsys = goose.DialectSQLite3, migrations.SQLite()
	default:
		return nil, fmt.Errorf("unknown dialect %q", dialect)
	}

	provider, err := goose.NewProvider(gd, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	return provider, nil
}
