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

func TestListFavorites_200(t *testing.T) {
	favs := &mockFavoriteServicer{
		list: func(context.Context) ([]domain.Favorite, error) {
			return []domain.Favorite{{ID: 7, DepartureCode: "SEA", DestinationCode: "PDX"}}, nil
		},
	}
	h := newHTTPHandler(nil, favs, nil)

	rec := do(h, http.MethodGet, "/favorites", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[[]handler.Favorite](t, rec)
	require.Len(t, body, 1)
	assert.Equal(t, handler.Favorite{ID: 7, DepartureCode: "SEA", DestinationCode: "PDX"}, body[0])
}

func TestListFavorites_Empty(t *testing.T) {
	favs := &mockFavoriteServicer{
		list: func(context.Context) ([]domain.Favorite, error) { return []domain.Favorite{}, nil },
	}
	h := newHTTPHandler(nil, favs, nil)

	rec := do(h, http.MethodGet, "/favorites", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAddFavorite_204_NormalizesCodes(t *testing.T) {
	var captured domain.RouteKey
	favs := &mockFavoriteServicer{
		add: func(_ context.Context, key domain.RouteKey) error {
			captured = key
			return nil
		},
	}
	h := newHTTPHandler(nil, favs, nil)

	rec := do(h, http.MethodPut, "/favorites/sea/pdx", nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.RouteKey{DepartureCode: "SEA", DestinationCode: "PDX"}, captured)
}

func TestRemoveFavorite_204(t *testing.T) {
	called := false
	favs := &mockFavoriteServicer{
		remove: func(_ context.Context, key domain.RouteKey) error {
			called = true
			assert.Equal(t, "JFK", key.DepartureCode)
			return nil
		},
	}
	h := newHTTPHandler(nil, favs, nil)

	rec := do(h, http.MethodDelete, "/favorites/JFK/SEA", nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}

func TestToggleFavorite_200(t *testing.T) {
	favs := &mockFavoriteServicer{
		toggle: func(_ context.Context, f domain.Flight) (bool, error) {
			assert.Equal(t, domain.RouteKey{DepartureCode: "SEA", DestinationCode: "JFK"}, f.Key())
			return true, nil
		},
	}
	h := newHTTPHandler(nil, favs, nil)

	rec := do(h, http.MethodPost, "/favorites/SEA/JFK/toggle", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[handler.ToggleResponse](t, rec)
	assert.True(t, body.Favorite)
}

func TestToggleFavorite_422(t *testing.T) {
	favs := &mockFavoriteServicer{
		toggle: func(context.Context, domain.Flight) (bool, error) {
			return false, fmt.Errorf("%w: departure and destination codes are required", domain.ErrValidation)
		},
	}
	h := newHTTPHandler(nil, favs, nil)

	rec := do(h, http.MethodPost, "/favorites/%20/JFK/toggle", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "departure and destination codes are required", body.Error.Message)
}

func TestAddFavorite_500(t *testing.T) {
	favs := &mockFavoriteServicer{
		add: func(context.Context, domain.RouteKey) error { return errors.New("disk full") },
	}
	h := newHTTPHandler(nil, favs, nil)

	rec := do(h, http.MethodPut, "/favorites/SEA/PDX", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
