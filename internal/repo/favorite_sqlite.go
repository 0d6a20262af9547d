package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkordes/flight-search/backend/internal/domain"
)

// sqliteFavoriteRepo is the SQLite implementation of FavoriteRepo.
type sqliteFavoriteRepo struct {
	db sqlDB
}

// NewSQLiteFavoriteRepo constructs a FavoriteRepo backed by a SQLite database.
func NewSQLiteFavoriteRepo(db sqlDB) FavoriteRepo {
	return &sqliteFavoriteRepo{db: db}
}

func (r *sqliteFavoriteRepo) Exists(ctx context.Context, key domain.RouteKey) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM favorite
			WHERE departure_code = @departure_code
			  AND destination_code = @destination_code
		)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, sqlRouteArgs(key)...).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.FavoriteRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *sqliteFavoriteRepo) Add(ctx context.Context, key domain.RouteKey) error {
	const q = `
		INSERT INTO favorite (departure_code, destination_code)
		VALUES (@departure_code, @destination_code)
		ON CONFLICT (departure_code, destination_code) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, q, sqlRouteArgs(key)...); err != nil {
		return fmt.Errorf("repo.FavoriteRepo.Add: %w", err)
	}
	return nil
}

func (r *sqliteFavoriteRepo) Remove(ctx context.Context, key domain.RouteKey) error {
	const q = `
		DELETE FROM favorite
		WHERE departure_code = @departure_code
		  AND destination_code = @destination_code`

	if _, err := r.db.ExecContext(ctx, q, sqlRouteArgs(key)...); err != nil {
		return fmt.Errorf("repo.FavoriteRepo.Remove: %w", err)
	}
	return nil
}

func (r *sqliteFavoriteRepo) List(ctx context.Context) ([]domain.Favorite, error) {
	const q = `
		SELECT id, departure_code, destination_code
		FROM favorite
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.FavoriteRepo.List: %w", err)
	}
	defer rows.Close()

	favs := []domain.Favorite{}
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.ID, &f.DepartureCode, &f.DestinationCode); err != nil {
			return nil, fmt.Errorf("repo.FavoriteRepo.List: scan: %w", err)
		}
		favs = append(favs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FavoriteRepo.List: rows: %w", err)
	}
	return favs, nil
}

func sqlRouteArgs(key domain.RouteKey) []any {
	return []any{
		sql.Named("departure_code", key.DepartureCode),
		sql.Named("destination_code", key.DestinationCode),
	}
}
