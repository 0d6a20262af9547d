package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqlitePreferenceRepo is the SQLite implementation of PreferenceRepo.
type sqlitePreferenceRepo struct {
	db sqlDB
}

// NewSQLitePreferenceRepo constructs a PreferenceRepo backed by a SQLite database.
func NewSQLitePreferenceRepo(db sqlDB) PreferenceRepo {
	return &sqlitePreferenceRepo{db: db}
}

func (r *sqlitePreferenceRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM preferences WHERE key = @key`

	var value string
	err := r.db.QueryRowContext(ctx, q, sql.Named("key", key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("repo.PreferenceRepo.Get: %w", err)
	}
	return value, nil
}

func (r *sqlitePreferenceRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO preferences (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`

	if _, err := r.db.ExecContext(ctx, q, sql.Named("key", key), sql.Named("value", value)); err != nil {
		return fmt.Errorf("repo.PreferenceRepo.Set: %w", err)
	}
	return nil
}
