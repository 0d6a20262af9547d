// Package snapshot holds the bundled airport directory and seeds it into the
// store. The snapshot is read-only reference data: it is loaded once into an
// empty airport table and never rewritten by the application.
package snapshot

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkordes/flight-search/backend/internal/domain"
)

// Version identifies the bundled snapshot. Bump it whenever airports.csv changes.
const Version = "2024.1"

//go:embed airports.csv
var airportsCSV []byte

// header is the expected first row of the snapshot file.
var header = []string{"id", "iata_code", "name", "passengers"}

// Seeder is the subset of repo.AirportRepo the loader needs.
type Seeder interface {
	Count(ctx context.Context) (int64, error)
	Seed(ctx context.Context, airports []domain.Airport) error
}

// Airports parses the bundled snapshot.
func Airports() ([]domain.Airport, error) {
	return Parse(bytes.NewReader(airportsCSV))
}

// Parse reads airports from CSV with the columns id,iata_code,name,passengers.
// Duplicate ids are rejected; duplicate IATA codes are allowed.
func Parse(r io.Reader) ([]domain.Airport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("snapshot.Parse: header: %w", err)
	}
	for i, col := range header {
		if strings.TrimSpace(first[i]) != col {
			return nil, fmt.Errorf("snapshot.Parse: header column %d is %q, want %q", i, first[i], col)
		}
	}

	var (
		airports []domain.Airport
		seen     = map[int64]struct{}{}
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("snapshot.Parse: %w", err)
		}
		line, _ := cr.FieldPos(0)

		id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("snapshot.Parse: line %d: id: %w", line, err)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("snapshot.Parse: line %d: duplicate id %d", line, id)
		}
		seen[id] = struct{}{}

		passengers, err := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("snapshot.Parse: line %d: passengers: %w", line, err)
		}

		code := domain.NormalizeCode(rec[1])
		if code == "" {
			return nil, fmt.Errorf("snapshot.Parse: line %d: empty iata_code", line)
		}

		airports = append(airports, domain.Airport{
			ID:         id,
			IATACode:   code,
			Name:       strings.TrimSpace(rec[2]),
			Passengers: passengers,
		})
	}
	return airports, nil
}

// Seed loads the bundled snapshot into s if, and only if, the airport table
// is empty. It returns the number of airports inserted.
func Seed(ctx context.Context, s Seeder) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot.Seed: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	airports, err := Airports()
	if err != nil {
		return 0, err
	}
	if err := s.Seed(ctx, airports); err != nil {
		return 0, fmt.Errorf("snapshot.Seed: %w", err)
	}
	return len(airports), nil
}
