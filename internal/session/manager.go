package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/flight-search/backend/internal/domain"
)

// Manager owns the live Controllers, one per session id.
type Manager struct {
	routes    RouteFinder
	favorites FavoriteToggler
	queries   QueryStore
	log       *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Controller
	closed   bool
}

// NewManager constructs a Manager whose Controllers share the given services.
func NewManager(routes RouteFinder, favorites FavoriteToggler, queries QueryStore, log *slog.Logger) *Manager {
	return &Manager{
		routes:    routes,
		favorites: favorites,
		queries:   queries,
		log:       log,
		sessions:  make(map[uuid.UUID]*Controller),
	}
}

// Create starts a new session and returns its id and Controller.
func (m *Manager) Create() (uuid.UUID, *Controller, error) {
	id := uuid.New()
	c := NewController(m.routes, m.favorites, m.queries, m.log.With("session_id", id.String()))
	if err := c.Start(); err != nil {
		c.Close()
		return uuid.Nil, nil, fmt.Errorf("session.Manager.Create: %w", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		c.Close()
		return uuid.Nil, nil, fmt.Errorf("session.Manager.Create: %w", ErrClosed)
	}
	m.sessions[id] = c
	m.mu.Unlock()

	m.log.Info("session created", "session_id", id.String())
	return id, c, nil
}

// Get returns the Controller for id, or domain.ErrNotFound.
func (m *Manager) Get(id uuid.UUID) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session.Manager.Get: %w", domain.ErrNotFound)
	}
	return c, nil
}

// Delete closes and forgets the session. Returns domain.ErrNotFound if id is unknown.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	c, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session.Manager.Delete: %w", domain.ErrNotFound)
	}

	c.Close()
	m.log.Info("session deleted", "session_id", id.String())
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close closes every session. Create fails afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Controller)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, c := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Close()
		}()
	}
	wg.Wait()
}
