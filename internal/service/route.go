// Package service contains the business logic for the Flight Search API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/flight-search/backend/internal/domain"
	"github.com/pkordes/flight-search/backend/internal/repo"
)

// RouteService answers the two read questions of the app: which airports
// match a query, and which routes leave a given airport.
type RouteService struct {
	airports repo.AirportRepo
}

// NewRouteService constructs a RouteService backed by the provided AirportRepo.
func NewRouteService(airports repo.AirportRepo) *RouteService {
	return &RouteService{airports: airports}
}

// SearchAirports returns the airports whose name or code contains query.
// A blank query yields no suggestions rather than the whole directory.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RouteService) SearchAirports(ctx context.Context, query string) ([]domain.Airport, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Airport{}, nil
	}
	airports, err := s.airports.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("service.RouteService.SearchAirports: %w", err)
	}
	if airports == nil {
		return []domain.Airport{}, nil
	}
	return airports, nil
}

// AirportByCode returns the airport with the given IATA code.
// Returns domain.ErrValidation for a blank code and domain.ErrNotFound when
// no airport has that code.
func (s *RouteService) AirportByCode(ctx context.Context, code string) (domain.Airport, error) {
	code = domain.NormalizeCode(code)
	if code == "" {
		return domain.Airport{}, fmt.Errorf("%w: airport code is required", domain.ErrValidation)
	}
	a, err := s.airports.GetByCode(ctx, code)
	if err != nil {
		return domain.Airport{}, fmt.Errorf("service.RouteService.AirportByCode: %w", err)
	}
	return a, nil
}

// FlightsFrom returns one Flight per other airport, in the directory's
// destination ranking (favorites of departure first, then by traffic).
// Favorite status itself is not attached here.
func (s *RouteService) FlightsFrom(ctx context.Context, departure domain.Airport) ([]domain.Flight, error) {
	destinations, err := s.airports.Destinations(ctx, departure)
	if err != nil {
		return nil, fmt.Errorf("service.RouteService.FlightsFrom: %w", err)
	}
	flights := make([]domain.Flight, 0, len(destinations))
	for _, d := range destinations {
		flights = append(flights, domain.NewFlight(departure, d))
	}
	return flights, nil
}
