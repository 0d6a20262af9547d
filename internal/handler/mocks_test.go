package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/flight-search/backend/internal/domain"
	"github.com/pkordes/flight-search/backend/internal/handler"
	"github.com/pkordes/flight-search/backend/internal/session"
)

// ---- mock RouteServicer ----------------------------------------------------

// mockRouteServicer is a test double for handler.RouteServicer.
// Set only the method fields your test needs.
type mockRouteServicer struct {
	searchAirports func(ctx context.Context, query string) ([]domain.Airport, error)
	airportByCode  func(ctx context.Context, code string) (domain.Airport, error)
	flightsFrom    func(ctx context.Context, departure domain.Airport) ([]domain.Flight, error)
}

func (m *mockRouteServicer) SearchAirports(ctx context.Context, query string) ([]domain.Airport, error) {
	return m.searchAirports(ctx, query)
}
func (m *mockRouteServicer) AirportByCode(ctx context.Context, code string) (domain.Airport, error) {
	return m.airportByCode(ctx, code)
}
func (m *mockRouteServicer) FlightsFrom(ctx context.Context, departure domain.Airport) ([]domain.Flight, error) {
	return m.flightsFrom(ctx, departure)
}

// ---- mock FavoriteServicer -------------------------------------------------

type mockFavoriteServicer struct {
	list      func(ctx context.Context) ([]domain.Favorite, error)
	add       func(ctx context.Context, key domain.RouteKey) error
	remove    func(ctx context.Context, key domain.RouteKey) error
	toggle    func(ctx context.Context, flight domain.Flight) (bool, error)
	subscribe func(ctx context.Context) (<-chan []domain.Favorite, error)
}

func (m *mockFavoriteServicer) List(ctx context.Context) ([]domain.Favorite, error) {
	return m.list(ctx)
}
func (m *mockFavoriteServicer) Add(ctx context.Context, key domain.RouteKey) error {
	return m.add(ctx, key)
}
func (m *mockFavoriteServicer) Remove(ctx context.Context, key domain.RouteKey) error {
	return m.remove(ctx, key)
}
func (m *mockFavoriteServicer) Toggle(ctx context.Context, flight domain.Flight) (bool, error) {
	return m.toggle(ctx, flight)
}
func (m *mockFavoriteServicer) Subscribe(ctx context.Context) (<-chan []domain.Favorite, error) {
	return m.subscribe(ctx)
}

// ---- mock QueryStore -------------------------------------------------------

type mockQueryStore struct {
	searchQuery     func(ctx context.Context) (string, error)
	saveSearchQuery func(ctx context.Context, q string) error
}

func (m *mockQueryStore) SearchQuery(ctx context.Context) (string, error) {
	return m.searchQuery(ctx)
}
func (m *mockQueryStore) SaveSearchQuery(ctx context.Context, q string) error {
	return m.saveSearchQuery(ctx, q)
}

// ---- mock Pinger -----------------------------------------------------------

type mockPinger struct {
	ping func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.ping(ctx) }

// compile-time checks
var (
	_ handler.RouteServicer    = (*mockRouteServicer)(nil)
	_ handler.FavoriteServicer = (*mockFavoriteServicer)(nil)
	_ handler.Pinger           = (*mockPinger)(nil)
	_ session.RouteFinder      = (*mockRouteServicer)(nil)
	_ session.FavoriteToggler  = (*mockFavoriteServicer)(nil)
	_ session.QueryStore       = (*mockQueryStore)(nil)
	_ handler.SessionManager   = (*session.Manager)(nil)
)

// ---- helpers ---------------------------------------------------------------

var (
	sea = domain.Airport{ID: 1, IATACode: "SEA", Name: "Seattle-Tacoma International Airport", Passengers: 50_000_000}
	pdx = domain.Airport{ID: 2, IATACode: "PDX", Name: "Portland International Airport", Passengers: 19_000_000}
	jfk = domain.Airport{ID: 3, IATACode: "JFK", Name: "John F. Kennedy International Airport", Passengers: 62_000_000}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newHTTPHandler wires a Server with the given mocks into the chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(routes handler.RouteServicer, favs handler.FavoriteServicer, sessions handler.SessionManager) http.Handler {
	srv := handler.NewServer(routes, favs, sessions, nil, discardLogger())
	return handler.Handler(srv)
}

// quietFavorites returns a FavoriteServicer whose feed carries the given set.
func quietFavorites(favs ...domain.Favorite) *mockFavoriteServicer {
	return &mockFavoriteServicer{
		list: func(context.Context) ([]domain.Favorite, error) { return favs, nil },
		subscribe: func(ctx context.Context) (<-chan []domain.Favorite, error) {
			ch := make(chan []domain.Favorite, 1)
			ch <- favs
			go func() {
				<-ctx.Done()
				close(ch)
			}()
			return ch, nil
		},
	}
}

// memQueries returns a QueryStore holding q that accepts every save.
func memQueries(q string) *mockQueryStore {
	return &mockQueryStore{
		searchQuery:     func(context.Context) (string, error) { return q, nil },
		saveSearchQuery: func(context.Context, string) error { return nil },
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
