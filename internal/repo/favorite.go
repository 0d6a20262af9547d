package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/flight-search/backend/internal/domain"
)

// FavoriteRepo defines the persistence operations for favorite routes.
// Every method is keyed by the ordered (departure, destination) pair.
type FavoriteRepo interface {
	// Exists reports whether the route is a favorite.
	Exists(ctx context.Context, key domain.RouteKey) (bool, error)

	// Add marks the route as a favorite. Idempotent: adding an existing
	// favorite leaves exactly one row.
	Add(ctx context.Context, key domain.RouteKey) error

	// Remove unmarks the route. Idempotent: removing a route that is not a
	// favorite is not an error.
	Remove(ctx context.Context, key domain.RouteKey) error

	// List returns all favorites in insertion order.
	List(ctx context.Context) ([]domain.Favorite, error)
}

// pgFavoriteRepo is the Postgres implementation of FavoriteRepo.
type pgFavoriteRepo struct {
	db db
}

// NewFavoriteRepo constructs a FavoriteRepo backed by the provided db connection.
func NewFavoriteRepo(db db) FavoriteRepo {
	return &pgFavoriteRepo{db: db}
}

func (r *pgFavoriteRepo) Exists(ctx context.Context, key domain.RouteKey) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM favorite
			WHERE departure_code = @departure_code
			  AND destination_code = @destination_code
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, routeArgs(key)).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.FavoriteRepo.Exists: %w", err)
	}
	return exists, nil
}

// Add relies on the (departure_code, destination_code) unique constraint:
// a conflicting insert is a no-op.
func (r *pgFavoriteRepo) Add(ctx context.Context, key domain.RouteKey) error {
	const q = `
		INSERT INTO favorite (departure_code, destination_code)
		VALUES (@departure_code, @destination_code)
		ON CONFLICT (departure_code, destination_code) DO NOTHING`

	if _, err := r.db.Exec(ctx, q, routeArgs(key)); err != nil {
		return fmt.Errorf("repo.FavoriteRepo.Add: %w", err)
	}
	return nil
}

func (r *pgFavoriteRepo) Remove(ctx context.Context, key domain.RouteKey) error {
	const q = `
		DELETE FROM favorite
		WHERE departure_code = @departure_code
		  AND destination_code = @destination_code`

	if _, err := r.db.Exec(ctx, q, routeArgs(key)); err != nil {
		return fmt.Errorf("repo.FavoriteRepo.Remove: %w", err)
	}
	return nil
}

func (r *pgFavoriteRepo) List(ctx context.Context) ([]domain.Favorite, error) {
	const q = `
		SELECT id, departure_code, destination_code
		FROM favorite
		ORDER BY id`

	rows, err := r.db.Query(ctx, q)
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

func routeArgs(key domain.RouteKey) pgx.NamedArgs {
	return pgx.NamedArgs{
		"departure_code":   key.DepartureCode,
		"destination_code": key.DestinationCode,
	}
}
