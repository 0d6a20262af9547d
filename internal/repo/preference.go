package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PreferenceRepo is a persisted string key-value store.
type PreferenceRepo interface {
	// Get returns the value stored under key, or "" if it was never set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// pgPreferenceRepo is the Postgres implementation of PreferenceRepo.
type pgPreferenceRepo struct {
	db db
}

// NewPreferenceRepo constructs a PreferenceRepo backed by the provided db connection.
func NewPreferenceRepo(db db) PreferenceRepo {
	return &pgPreferenceRepo{db: db}
}

func (r *pgPreferenceRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM preferences WHERE key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("repo.PreferenceRepo.Get: %w", err)
	}
	return value, nil
}

func (r *pgPreferenceRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO preferences (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value}); err != nil {
		return fmt.Errorf("repo.PreferenceRepo.Set: %w", err)
	}
	return nil
}
