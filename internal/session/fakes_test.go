package session_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/pkordes/flight-search/backend/internal/domain"
	"github.com/pkordes/flight-search/backend/internal/session"
	"github.com/pkordes/flight-search/backend/internal/xsync"
)

// ---- fake RouteFinder ------------------------------------------------------

type fakeRoutes struct {
	searchAirports func(ctx context.Context, query string) ([]domain.Airport, error)
	flightsFrom    func(ctx context.Context, departure domain.Airport) ([]domain.Flight, error)

	mu       sync.Mutex
	searches []string
}

func (f *fakeRoutes) SearchAirports(ctx context.Context, query string) ([]domain.Airport, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	f.mu.Unlock()
	return f.searchAirports(ctx, query)
}
func (f *fakeRoutes) FlightsFrom(ctx context.Context, departure domain.Airport) ([]domain.Flight, error) {
	return f.flightsFrom(ctx, departure)
}

func (f *fakeRoutes) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

// ---- fake FavoriteToggler --------------------------------------------------

type fakeFavorites struct {
	toggleErr    error
	subscribeErr error

	mu   sync.Mutex
	favs []domain.Favorite
	feed xsync.Broadcaster[[]domain.Favorite]
}

func (f *fakeFavorites) Toggle(_ context.Context, flight domain.Flight) (bool, error) {
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := flight.Key()
	next := make([]domain.Favorite, 0, len(f.favs)+1)
	found := false
	for _, fav := range f.favs {
		if fav.Key() == key {
			found = true
			continue
		}
		next = append(next, fav)
	}
	if !found {
		next = append(next, domain.Favorite{
			ID:              int64(len(f.favs) + 1),
			DepartureCode:   key.DepartureCode,
			DestinationCode: key.DestinationCode,
		})
	}
	f.favs = next
	f.feed.Publish(next)
	return !found, nil
}

func (f *fakeFavorites) Subscribe(ctx context.Context) (<-chan []domain.Favorite, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.mu.Lock()
	if _, ok := f.feed.Latest(); !ok {
		f.feed.Publish(append([]domain.Favorite{}, f.favs...))
	}
	f.mu.Unlock()
	return f.feed.Subscribe(ctx), nil
}

// ---- fake QueryStore -------------------------------------------------------

type fakeQueries struct {
	searchQuery func(ctx context.Context) (string, error)
	saveErr     error

	mu    sync.Mutex
	saved []string
}

func (f *fakeQueries) SearchQuery(ctx context.Context) (string, error) {
	if f.searchQuery == nil {
		return "", nil
	}
	return f.searchQuery(ctx)
}

func (f *fakeQueries) SaveSearchQuery(_ context.Context, q string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, q)
	return nil
}

func (f *fakeQueries) last() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return "", false
	}
	return f.saved[len(f.saved)-1], true
}

// ---- helpers ---------------------------------------------------------------

var (
	sea = domain.Airport{ID: 1, IATACode: "SEA", Name: "Seattle-Tacoma International Airport", Passengers: 50_000_000}
	pdx = domain.Airport{ID: 2, IATACode: "PDX", Name: "Portland International Airport", Passengers: 19_000_000}
	jfk = domain.Airport{ID: 3, IATACode: "JFK", Name: "John F. Kennedy International Airport", Passengers: 62_000_000}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newController(routes *fakeRoutes, favs *fakeFavorites, queries *fakeQueries) *session.Controller {
	if routes == nil {
		routes = &fakeRoutes{}
	}
	if favs == nil {
		favs = &fakeFavorites{}
	}
	if queries == nil {
		queries = &fakeQueries{}
	}
	return session.NewController(routes, favs, queries, discardLogger())
}

// flightsOf builds the flights a route service would return for departure.
func flightsOf(departure domain.Airport, destinations ...domain.Airport) []domain.Flight {
	out := make([]domain.Flight, 0, len(destinations))
	for _, d := range destinations {
		out = append(out, domain.NewFlight(departure, d))
	}
	return out
}
