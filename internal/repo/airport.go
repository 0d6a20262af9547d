package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/flight-search/backend/internal/domain"
)

// AirportRepo defines the read operations on the airport directory, plus the
// one-time seeding used by the snapshot loader.
type AirportRepo interface {
	// Search returns airports whose name or IATA code contains query,
	// case-insensitively, ordered by passengers descending then id.
	Search(ctx context.Context, query string) ([]domain.Airport, error)

	// GetByCode returns the airport with the given IATA code.
	// Returns domain.ErrNotFound if no airport has that code.
	GetByCode(ctx context.Context, code string) (domain.Airport, error)

	// Destinations returns every airport except the given one. Airports that
	// are a favorite destination of the given departure come first; within
	// each group the order is passengers descending then id.
	Destinations(ctx context.Context, departure domain.Airport) ([]domain.Airport, error)

	// Count returns the number of airports in the directory.
	Count(ctx context.Context) (int64, error)

	// Seed inserts the given airports, skipping ids that already exist.
	Seed(ctx context.Context, airports []domain.Airport) error
}

// pgAirportRepo is the Postgres implementation of AirportRepo.
type pgAirportRepo struct {
	db db
}

// NewAirportRepo constructs an AirportRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewAirportRepo(db db) AirportRepo {
	return &pgAirportRepo{db: db}
}

// Search matches name and code with ILIKE against an escaped pattern.
func (r *pgAirportRepo) Search(ctx context.Context, query string) ([]domain.Airport, error) {
	const q = `
		SELECT id, iata_code, name, passengers
		FROM airport
		WHERE name ILIKE @pattern ESCAPE '\'
		   OR iata_code ILIKE @pattern ESCAPE '\'
		ORDER BY passengers DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"pattern": containsPattern(query)})
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.Search: %w", err)
	}
	airports, err := collectAirports(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.Search: %w", err)
	}
	return airports, nil
}

// GetByCode looks up an airport by IATA code. Codes are compared upper-cased.
func (r *pgAirportRepo) GetByCode(ctx context.Context, code string) (domain.Airport, error) {
	const q = `
		SELECT id, iata_code, name, passengers
		FROM airport
		WHERE upper(iata_code) = @code
		ORDER BY id
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": domain.NormalizeCode(code)})
	a, err := scanAirport(row)
	if err != nil {
		return domain.Airport{}, fmt.Errorf("repo.AirportRepo.GetByCode: %w", err)
	}
	return a, nil
}

// Destinations left-joins the favorite table so favorites of the departure
// are ranked first. The join only biases the order; nothing is filtered out.
// The departure code is resolved from the airport table by id, so favorites
// only count in the departure → destination direction.
func (r *pgAirportRepo) Destinations(ctx context.Context, departure domain.Airport) ([]domain.Airport, error) {
	const q = `
		SELECT a.id, a.iata_code, a.name, a.passengers
		FROM airport a
		LEFT JOIN favorite f
		       ON f.destination_code = a.iata_code
		      AND f.departure_code = (SELECT iata_code FROM airport WHERE id = @id)
		WHERE a.id <> @id
		ORDER BY (f.destination_code IS NOT NULL) DESC, a.passengers DESC, a.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": departure.ID})
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.Destinations: %w", err)
	}
	airports, err := collectAirports(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.Destinations: %w", err)
	}
	return airports, nil
}

// Count returns the number of rows in the airport table.
func (r *pgAirportRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM airport`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.AirportRepo.Count: %w", err)
	}
	return n, nil
}

// Seed inserts each airport; rows whose id already exists are left untouched.
func (r *pgAirportRepo) Seed(ctx context.Context, airports []domain.Airport) error {
	const q = `
		INSERT INTO airport (id, iata_code, name, passengers)
		VALUES (@id, @iata_code, @name, @passengers)
		ON CONFLICT (id) DO NOTHING`

	for _, a := range airports {
		args := pgx.NamedArgs{
			"id":         a.ID,
			"iata_code":  a.IATACode,
			"name":       a.Name,
			"passengers": a.Passengers,
		}
		if _, err := r.db.Exec(ctx, q, args); err != nil {
			return fmt.Errorf("repo.AirportRepo.Seed: airport %d: %w", a.ID, err)
		}
	}
	return nil
}

// collectAirports drains rows into a non-nil slice and closes them.
func collectAirports(rows pgx.Rows) ([]domain.Airport, error) {
	defer rows.Close()

	airports := []domain.Airport{}
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		airports = append(airports, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return airports, nil
}

// scanAirport maps a single pgx row into a domain.Airport.
func scanAirport(s scanner) (domain.Airport, error) {
	var a domain.Airport
	if err := s.Scan(&a.ID, &a.IATACode, &a.Name, &a.Passengers); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Airport{}, domain.ErrNotFound
		}
		return domain.Airport{}, err
	}
	return a, nil
}
