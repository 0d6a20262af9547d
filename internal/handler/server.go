// Package handler implements the HTTP handlers for the Flight Search API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, airport.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/flight-search/backend/internal/domain"
	"github.com/pkordes/flight-search/backend/internal/session"
)

// RouteServicer defines the read operations the airport handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type RouteServicer interface {
	SearchAirports(ctx context.Context, query string) ([]domain.Airport, error)
	AirportByCode(ctx context.Context, code string) (domain.Airport, error)
	FlightsFrom(ctx context.Context, departure domain.Airport) ([]domain.Flight, error)
}

// FavoriteServicer defines the favorite operations the handlers depend on.
type FavoriteServicer interface {
	List(ctx context.Context) ([]domain.Favorite, error)
	Add(ctx context.Context, key domain.RouteKey) error
	Remove(ctx context.Context, key domain.RouteKey) error
	Toggle(ctx context.Context, flight domain.Flight) (bool, error)
}

// SessionManager owns the interaction controllers behind /sessions.
type SessionManager interface {
	Create() (uuid.UUID, *session.Controller, error)
	Get(id uuid.UUID) (*session.Controller, error)
	Delete(id uuid.UUID) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server implements every API endpoint. Wire it in main.go via Handler(server).
type Server struct {
	routes    RouteServicer
	favorites FavoriteServicer
	sessions  SessionManager
	db        Pinger
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// db may be nil, in which case /healthz does not check the store.
func NewServer(routes RouteServicer, favorites FavoriteServicer, sessions SessionManager, db Pinger, log *slog.Logger) *Server {
	return &Server{
		routes:    routes,
		favorites: favorites,
		sessions:  sessions,
		db:        db,
		log:       log,
	}
}
