package service

import (
	"context"
	"fmt"

	"github.com/pkordes/flight-search/backend/internal/repo"
)

// SearchQueryKey is the preference key holding the last search query.
const SearchQueryKey = "search_query"

// PreferenceService persists the user's last search query.
type PreferenceService struct {
	prefs repo.PreferenceRepo
}

// NewPreferenceService constructs a PreferenceService backed by the provided PreferenceRepo.
func NewPreferenceService(prefs repo.PreferenceRepo) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

// SearchQuery returns the saved query, or "" if none was ever saved.
func (s *PreferenceService) SearchQuery(ctx context.Context) (string, error) {
	q, err := s.prefs.Get(ctx, SearchQueryKey)
	if err != nil {
		return "", fmt.Errorf("service.PreferenceService.SearchQuery: %w", err)
	}
	return q, nil
}

// SaveSearchQuery stores q as-is. The empty string means "no saved query".
func (s *PreferenceService) SaveSearchQuery(ctx context.Context, q string) error {
	if err := s.prefs.Set(ctx, SearchQueryKey, q); err != nil {
		return fmt.Errorf("service.PreferenceService.SaveSearchQuery: %w", err)
	}
	return nil
}
