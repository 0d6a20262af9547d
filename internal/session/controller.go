package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pkordes/flight-search/backend/internal/domain"
	"github.com/pkordes/flight-search/backend/internal/xsync"
)

// RouteFinder is the read side the Controller needs from the route service.
type RouteFinder interface {
	SearchAirports(ctx context.Context, query string) ([]domain.Airport, error)
	FlightsFrom(ctx context.Context, departure domain.Airport) ([]domain.Flight, error)
}

// FavoriteToggler is the favorite store as seen by the Controller.
type FavoriteToggler interface {
	Toggle(ctx context.Context, flight domain.Flight) (bool, error)
	Subscribe(ctx context.Context) (<-chan []domain.Favorite, error)
}

// QueryStore persists the last search query.
type QueryStore interface {
	SearchQuery(ctx context.Context) (string, error)
	SaveSearchQuery(ctx context.Context, q string) error
}

// ErrClosed is returned by Start on a Controller that has been closed.
var ErrClosed = errors.New("session closed")

// Controller is the interaction state machine for one session.
//
// Event methods (OnQueryChange, OnAirportSelected, OnToggleFavorite,
// OnClearSearch) update the state synchronously and never block on the store;
// store calls run on their own goroutines. Results are applied only if the
// query or selection they were computed for is still current, tracked by a
// generation counter per field.
type Controller struct {
	routes    RouteFinder
	favorites FavoriteToggler
	queries   QueryStore
	log       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// pending tracks short-lived store calls; bg tracks the favorites subscription.
	pending sync.WaitGroup
	bg      sync.WaitGroup

	startOnce sync.Once
	startErr  error

	mu        sync.Mutex
	state     UiState
	queryGen  uint64
	selectGen uint64
	closed    bool

	// saveMu and savedGen keep query writes in event order: a write for an
	// older generation is skipped once a newer one has run.
	saveMu   sync.Mutex
	savedGen uint64

	feed xsync.Broadcaster[UiState]
}

// NewController returns a Controller in the initial state: empty query, no
// selection. Call Start to attach the favorites feed and restore the saved query.
func NewController(routes RouteFinder, favorites FavoriteToggler, queries QueryStore, log *slog.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		routes:    routes,
		favorites: favorites,
		queries:   queries,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		state:     emptyState(),
	}
	c.feed.Publish(c.state)
	return c
}

// Start subscribes to the favorite set and restores the saved search query.
// Only the first call does any work; later calls return its result.
func (c *Controller) Start() error {
	c.startOnce.Do(func() {
		c.startErr = c.start()
	})
	return c.startErr
}

func (c *Controller) start() error {
	favs, err := c.favorites.Subscribe(c.ctx)
	if err != nil {
		return fmt.Errorf("session.Controller.Start: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("session.Controller.Start: %w", ErrClosed)
	}

	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		for f := range favs {
			c.mu.Lock()
			c.state.Favorites = f
			c.publishLocked()
			c.mu.Unlock()
		}
	}()
	c.spawnLocked(c.restoreQuery)
	return nil
}

// restoreQuery adopts the saved query if the user has not typed anything yet.
func (c *Controller) restoreQuery(ctx context.Context) {
	q, err := c.queries.SearchQuery(ctx)
	if err != nil {
		c.log.WarnContext(ctx, "failed to restore search query", "error", err)
		return
	}
	if q == "" {
		return
	}

	c.mu.Lock()
	if c.closed || c.queryGen != 0 {
		c.mu.Unlock()
		return
	}
	c.state.Query = q
	c.publishLocked()
	c.mu.Unlock()

	if strings.TrimSpace(q) != "" {
		c.search(ctx, 0, q)
	}
}

// OnQueryChange sets the query, drops the selection and its flights, saves the
// query in the background and starts a suggestion search for non-blank text.
func (c *Controller) OnQueryChange(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.queryGen++
	c.selectGen++
	gen := c.queryGen

	c.state.Query = text
	c.state.Selected = nil
	c.state.Flights = []domain.Flight{}
	blank := strings.TrimSpace(text) == ""
	if blank {
		c.state.Suggestions = []domain.Airport{}
	}
	c.publishLocked()

	c.spawnLocked(func(ctx context.Context) { c.saveQuery(ctx, gen, text) })
	if !blank {
		c.spawnLocked(func(ctx context.Context) { c.search(ctx, gen, text) })
	}
}

// OnClearSearch is OnQueryChange("").
func (c *Controller) OnClearSearch() {
	c.OnQueryChange("")
}

// OnAirportSelected selects the airport, clears the previous flights and
// computes the new ones in the background.
func (c *Controller) OnAirportSelected(airport domain.Airport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.selectGen++
	gen := c.selectGen
	c.state.Selected = &airport
	c.state.Flights = []domain.Flight{}
	c.publishLocked()

	c.spawnLocked(func(ctx context.Context) { c.loadFlights(ctx, gen, airport) })
}

// OnToggleFavorite flips the favorite status of the flight's route. The new
// favorite set arrives through the favorites subscription.
func (c *Controller) OnToggleFavorite(flight domain.Flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.spawnLocked(func(ctx context.Context) {
		_, err := c.favorites.Toggle(ctx, flight)
		c.mu.Lock()
		defer c.mu.Unlock()
		hadErr := c.state.Err != ""
		if c.settleLocked(ctx, "toggle favorite", err) && hadErr {
			c.publishLocked()
		}
	})
}

// State returns the current view model.
func (c *Controller) State() UiState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel delivering the current UiState and every later
// one. A slow reader only skips superseded states. The channel is closed when
// ctx is done or the Controller is closed.
func (c *Controller) Subscribe(ctx context.Context) <-chan UiState {
	return c.feed.Subscribe(ctx)
}

// Wait blocks until every store call started so far has finished.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// Close lets in-flight store calls finish, then ends the favorites
// subscription and every UiState subscription. Events after Close are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.pending.Wait()
	c.cancel()
	c.bg.Wait()
	c.feed.Close()
}

func (c *Controller) search(ctx context.Context, gen uint64, text string) {
	airports, err := c.routes.SearchAirports(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.queryGen {
		c.log.DebugContext(ctx, "discarding stale suggestions", "query", text)
		return
	}
	if c.settleLocked(ctx, "search airports", err) {
		c.state.Suggestions = airports
		c.publishLocked()
	}
}

func (c *Controller) loadFlights(ctx context.Context, gen uint64, airport domain.Airport) {
	flights, err := c.routes.FlightsFrom(ctx, airport)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.selectGen {
		c.log.DebugContext(ctx, "discarding stale flights", "departure", airport.IATACode)
		return
	}
	if c.settleLocked(ctx, "load flights", err) {
		c.state.Flights = flights
		c.publishLocked()
	}
}

func (c *Controller) saveQuery(ctx context.Context, gen uint64, text string) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if gen < c.savedGen {
		return
	}
	c.savedGen = gen
	if err := c.queries.SaveSearchQuery(ctx, text); err != nil {
		c.log.WarnContext(ctx, "failed to save search query", "error", err)
	}
}

// settleLocked records the outcome of a store call in the error field and
// reports whether it succeeded. A failure is published immediately; on
// success the field is cleared and publishing is left to the caller.
func (c *Controller) settleLocked(ctx context.Context, op string, err error) bool {
	if err != nil {
		c.log.ErrorContext(ctx, "store operation failed", "op", op, "error", err)
		c.state.Err = op + ": " + err.Error()
		c.publishLocked()
		return false
	}
	c.state.Err = ""
	return true
}

// spawnLocked runs fn on its own goroutine. Callers hold c.mu, which orders
// every pending.Add before the pending.Wait in Close.
func (c *Controller) spawnLocked(fn func(ctx context.Context)) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		fn(c.ctx)
	}()
}

func (c *Controller) publishLocked() {
	c.state.Version++
	c.feed.Publish(c.state)
}
