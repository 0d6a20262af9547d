package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"

	"github.com/pkordes/flight-search/backend/internal/domain"
)

// SQLite's LIKE and lower() fold ASCII only. casefold lowers with Unicode
// rules so "SÁ" finds "Francisco Sá Carneiro", as ILIKE does on Postgres.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("casefold", 1, casefold)
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("casefold: unsupported argument type %T", v)
	}
}

// sqliteAirportRepo is the SQLite implementation of AirportRepo.
type sqliteAirportRepo struct {
	db sqlDB
}

// NewSQLiteAirportRepo constructs an AirportRepo backed by a SQLite database.
func NewSQLiteAirportRepo(db sqlDB) AirportRepo {
	return &sqliteAirportRepo{db: db}
}

func (r *sqliteAirportRepo) Search(ctx context.Context, query string) ([]domain.Airport, error) {
	const q = `
		SELECT id, iata_code, name, passengers
		FROM airport
		WHERE instr(casefold(name), casefold(@query)) > 0
		   OR instr(casefold(iata_code), casefold(@query)) > 0
		ORDER BY passengers DESC, id`

	rows, err := r.db.QueryContext(ctx, q, sql.Named("query", query))
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.Search: %w", err)
	}
	airports, err := collectSQLAirports(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.Search: %w", err)
	}
	return airports, nil
}

func (r *sqliteAirportRepo) GetByCode(ctx context.Context, code string) (domain.Airport, error) {
	const q = `
		SELECT id, iata_code, name, passengers
		FROM airport
		WHERE upper(iata_code) = @code
		ORDER BY id
		LIMIT 1`

	row := r.db.QueryRowContext(ctx, q, sql.Named("code", domain.NormalizeCode(code)))
	a, err := scanSQLAirport(row)
	if err != nil {
		return domain.Airport{}, fmt.Errorf("repo.AirportRepo.GetByCode: %w", err)
	}
	return a, nil
}

func (r *sqliteAirportRepo) Destinations(ctx context.Context, departure domain.Airport) ([]domain.Airport, error) {
	const q = `
		SELECT a.id, a.iata_code, a.name, a.passengers
		FROM airport a
		LEFT JOIN favorite f
		       ON f.destination_code = a.iata_code
		      AND f.departure_code = (SELECT iata_code FROM airport WHERE id = @id)
		WHERE a.id <> @id
		ORDER BY (f.destination_code IS NOT NULL) DESC, a.passengers DESC, a.id`

	rows, err := r.db.QueryContext(ctx, q, sql.Named("id", departure.ID))
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.Destinations: %w", err)
	}
	airports, err := collectSQLAirports(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.Destinations: %w", err)
	}
	return airports, nil
}

func (r *sqliteAirportRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM airport`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.AirportRepo.Count: %w", err)
	}
	return n, nil
}

func (r *sqliteAirportRepo) Seed(ctx context.Context, airports []domain.Airport) error {
	const q = `
		INSERT INTO airport (id, iata_code, name, passengers)
		VALUES (@id, @iata_code, @name, @passengers)
		ON CONFLICT (id) DO NOTHING`

	for _, a := range airports {
		_, err := r.db.ExecContext(ctx, q,
			sql.Named("id", a.ID),
			sql.Named("iata_code", a.IATACode),
			sql.Named("name", a.Name),
			sql.Named("passengers", a.Passengers),
		)
		if err != nil {
			return fmt.Errorf("repo.AirportRepo.Seed: airport %d: %w", a.ID, err)
		}
	}
	return nil
}

func collectSQLAirports(rows *sql.Rows) ([]domain.Airport, error) {
	defer rows.Close()

	airports := []domain.Airport{}
	for rows.Next() {
		a, err := scanSQLAirport(rows)
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

// scanSQLAirport is scanAirport for database/sql, mapping sql.ErrNoRows.
func scanSQLAirport(s scanner) (domain.Airport, error) {
	var a domain.Airport
	if err := s.Scan(&a.ID, &a.IATACode, &a.Name, &a.Passengers); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Airport{}, domain.ErrNotFound
		}
		return domain.Airport{}, err
	}
	return a, nil
}
