package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkordes/flight-search/backend/internal/domain"
	"github.com/pkordes/flight-search/backend/internal/repo"
	"github.com/pkordes/flight-search/backend/internal/xsync"
)

// FavoriteService owns the favorite set: it validates route keys, serializes
// writes per route, and keeps every subscriber's view of the full set current.
type FavoriteService struct {
	repo repo.FavoriteRepo
	log  *slog.Logger

	// locks serializes read-then-write sequences on the same route.
	locks xsync.KeyedMutex[domain.RouteKey]

	// feedMu orders refreshes so the last published set is never older than
	// the last committed write.
	feedMu sync.Mutex
	feed   xsync.Broadcaster[[]domain.Favorite]
}

// NewFavoriteService constructs a FavoriteService backed by the provided FavoriteRepo.
func NewFavoriteService(r repo.FavoriteRepo, log *slog.Logger) *FavoriteService {
	return &FavoriteService{repo: r, log: log}
}

// IsFavorite reports whether the route is a favorite.
func (s *FavoriteService) IsFavorite(ctx context.Context, key domain.RouteKey) (bool, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return false, err
	}
	ok, err := s.repo.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("service.FavoriteService.IsFavorite: %w", err)
	}
	return ok, nil
}

// List returns every favorite in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *FavoriteService) List(ctx context.Context) ([]domain.Favorite, error) {
	favs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.FavoriteService.List: %w", err)
	}
	if favs == nil {
		return []domain.Favorite{}, nil
	}
	return favs, nil
}

// Add marks the route as a favorite. Adding an existing favorite is a no-op.
func (s *FavoriteService) Add(ctx context.Context, key domain.RouteKey) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	err = s.withRouteLock(ctx, key, func() error {
		return s.repo.Add(ctx, key)
	})
	if err != nil {
		return fmt.Errorf("service.FavoriteService.Add: %w", err)
	}
	s.refresh(ctx)
	return nil
}

// Remove unmarks the route. Removing a route that is not a favorite is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, key domain.RouteKey) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	err = s.withRouteLock(ctx, key, func() error {
		return s.repo.Remove(ctx, key)
	})
	if err != nil {
		return fmt.Errorf("service.FavoriteService.Remove: %w", err)
	}
	s.refresh(ctx)
	return nil
}

// Toggle flips the favorite status of the flight's route and returns the new
// status. The existence check and the write run under the route's lock, so
// concurrent toggles of one route apply one at a time in arrival order.
func (s *FavoriteService) Toggle(ctx context.Context, flight domain.Flight) (bool, error) {
	key, err := normalizeKey(flight.Key())
	if err != nil {
		return false, err
	}

	var now bool
	err = s.withRouteLock(ctx, key, func() error {
		exists, err := s.repo.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return s.repo.Remove(ctx, key)
		}
		now = true
		return s.repo.Add(ctx, key)
	})
	if err != nil {
		return false, fmt.Errorf("service.FavoriteService.Toggle: %w", err)
	}

	s.log.DebugContext(ctx, "favorite toggled", "route", key.String(), "favorite", now)
	s.refresh(ctx)
	return now, nil
}

// Subscribe returns a channel carrying the full favorite set: the current set
// first, then the new set after every change. The channel is closed when ctx
// is done or the service is closed.
func (s *FavoriteService) Subscribe(ctx context.Context) (<-chan []domain.Favorite, error) {
	if _, ok := s.feed.Latest(); !ok {
		if err := s.publishCurrent(ctx); err != nil {
			return nil, fmt.Errorf("service.FavoriteService.Subscribe: %w", err)
		}
	}
	return s.feed.Subscribe(ctx), nil
}

// Close ends every subscription.
func (s *FavoriteService) Close() {
	s.feed.Close()
}

func (s *FavoriteService) withRouteLock(ctx context.Context, key domain.RouteKey, fn func() error) error {
	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

// refresh republishes the set after a committed write. A failure here does
// not undo the write, so it is logged rather than returned.
func (s *FavoriteService) refresh(ctx context.Context) {
	if err := s.publishCurrent(ctx); err != nil {
		s.log.ErrorContext(ctx, "failed to publish favorites", "error", err)
	}
}

func (s *FavoriteService) publishCurrent(ctx context.Context) error {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	favs, err := s.List(ctx)
	if err != nil {
		return err
	}
	s.feed.Publish(favs)
	return nil
}

// normalizeKey upper-cases both codes and rejects blank ones.
func normalizeKey(key domain.RouteKey) (domain.RouteKey, error) {
	key = domain.RouteKey{
		DepartureCode:   domain.NormalizeCode(key.DepartureCode),
		DestinationCode: domain.NormalizeCode(key.DestinationCode),
	}
	if key.DepartureCode == "" || key.DestinationCode == "" {
		return domain.RouteKey{}, fmt.Errorf("%w: departure and destination codes are required", domain.ErrValidation)
	}
	return key, nil
}
