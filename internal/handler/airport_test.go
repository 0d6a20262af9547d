package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/flight-search/backend/internal/domain"
	"github.com/pkordes/flight-search/backend/internal/handler"
)

// ---- GET /airports ---------------------------------------------------------

func TestSearchAirports_200(t *testing.T) {
	var captured string
	routes := &mockRouteServicer{
		searchAirports: func(_ context.Context, q string) ([]domain.Airport, error) {
			captured = q
			return []domain.Airport{jfk, sea}, nil
		},
	}
	h := newHTTPHandler(routes, nil, nil)

	rec := do(h, http.MethodGet, "/airports?q=International", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "International", captured)
	body := decode[[]handler.Airport](t, rec)
	require.Len(t, body, 2)
	assert.Equal(t, "JFK", body[0].IATACode)
	assert.Equal(t, int64(62_000_000), body[0].Passengers)
}

func TestSearchAirports_MissingQuery_EmptyList(t *testing.T) {
	routes := &mockRouteServicer{
		searchAirports: func(_ context.Context, q string) ([]domain.Airport, error) {
			assert.Equal(t, "", q)
			return []domain.Airport{}, nil
		},
	}
	h := newHTTPHandler(routes, nil, nil)

	rec := do(h, http.MethodGet, "/airports", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearchAirports_500(t *testing.T) {
	routes := &mockRouteServicer{
		searchAirports: func(context.Context, string) ([]domain.Airport, error) {
			return nil, errors.New("connection reset by peer")
		},
	}
	h := newHTTPHandler(routes, nil, nil)

	rec := do(h, http.MethodGet, "/airports?q=sea", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "internal_error", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "connection reset")
}

// ---- GET /airports/{code} --------------------------------------------------

func TestGetAirport_200(t *testing.T) {
	routes := &mockRouteServicer{
		airportByCode: func(_ context.Context, code string) (domain.Airport, error) {
			assert.Equal(t, "sea", code)
			return sea, nil
		},
	}
	h := newHTTPHandler(routes, nil, nil)

	rec := do(h, http.MethodGet, "/airports/sea", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[handler.Airport](t, rec)
	assert.Equal(t, "SEA", body.IATACode)
	assert.Equal(t, sea.Name, body.Name)
}

func TestGetAirport_404(t *testing.T) {
	routes := &mockRouteServicer{
		airportByCode: func(context.Context, string) (domain.Airport, error) {
			return domain.Airport{}, fmt.Errorf("service.RouteService.AirportByCode: %w", domain.ErrNotFound)
		},
	}
	h := newHTTPHandler(routes, nil, nil)

	rec := do(h, http.MethodGet, "/airports/XXX", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, "airport not found", body.Error.Message)
}

func TestGetAirport_422(t *testing.T) {
	routes := &mockRouteServicer{
		airportByCode: func(context.Context, string) (domain.Airport, error) {
			return domain.Airport{}, fmt.Errorf("%w: airport code is required", domain.ErrValidation)
		},
	}
	h := newHTTPHandler(routes, nil, nil)

	rec := do(h, http.MethodGet, "/airports/%20", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "airport code is required", body.Error.Message)
}

// ---- GET /airports/{code}/flights ------------------------------------------

func TestListFlights_200_DecoratesFavorites(t *testing.T) {
	routes := &mockRouteServicer{
		airportByCode: func(context.Context, string) (domain.Airport, error) { return sea, nil },
		flightsFrom: func(_ context.Context, dep domain.Airport) ([]domain.Flight, error) {
			return []domain.Flight{domain.NewFlight(dep, pdx), domain.NewFlight(dep, jfk)}, nil
		},
	}
	favs := &mockFavoriteServicer{
		list: func(context.Context) ([]domain.Favorite, error) {
			return []domain.Favorite{
				{ID: 1, DepartureCode: "SEA", DestinationCode: "PDX"},
				{ID: 2, DepartureCode: "JFK", DestinationCode: "SEA"},
			}, nil
		},
	}
	h := newHTTPHandler(routes, favs, nil)

	rec := do(h, http.MethodGet, "/airports/SEA/flights", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[[]handler.Flight](t, rec)
	require.Len(t, body, 2)
	assert.Equal(t, "PDX", body[0].DestinationCode)
	assert.True(t, body[0].Favorite)
	assert.Equal(t, "JFK", body[1].DestinationCode)
	assert.False(t, body[1].Favorite, "JFK->SEA must not mark SEA->JFK")
}

func TestListFlights_404(t *testing.T) {
	routes := &mockRouteServicer{
		airportByCode: func(context.Context, string) (domain.Airport, error) {
			return domain.Airport{}, domain.ErrNotFound
		},
	}
	h := newHTTPHandler(routes, nil, nil)

	rec := do(h, http.MethodGet, "/airports/XXX/flights", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListFlights_FavoritesError_500(t *testing.T) {
	routes := &mockRouteServicer{
		airportByCode: func(context.Context, string) (domain.Airport, error) { return sea, nil },
		flightsFrom: func(_ context.Context, dep domain.Airport) ([]domain.Flight, error) {
			return []domain.Flight{domain.NewFlight(dep, pdx)}, nil
		},
	}
	favs := &mockFavoriteServicer{
		list: func(context.Context) ([]domain.Favorite, error) { return nil, errors.New("database is locked") },
	}
	h := newHTTPHandler(routes, favs, nil)

	rec := do(h, http.MethodGet, "/airports/SEA/flights", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
