// Package session holds the per-user interaction state of the Flight Search
// app. A Controller turns user events (typing, selecting, toggling) into
// asynchronous service calls and republishes a UiState after every change.
package session

import (
	"strings"

	"github.com/pkordes/flight-search/backend/internal/domain"
)

// UiState is the view model published by a Controller. Values are snapshots:
// slices in a published UiState are never modified afterwards.
type UiState struct {
	Query       string            `json:"query"`
	Suggestions []domain.Airport  `json:"suggestions"`
	Selected    *domain.Airport   `json:"selected"`
	Flights     []domain.Flight   `json:"flights"`
	Favorites   []domain.Favorite `json:"favorites"`

	// Err is the message of the last failed store operation, empty when the
	// most recent operation succeeded.
	Err string `json:"error,omitempty"`

	// Version increases by one with every publish.
	Version uint64 `json:"version"`
}

// IsFavorite reports whether the flight's route is in the favorite set.
func (s UiState) IsFavorite(f domain.Flight) bool {
	key := f.Key()
	for _, fav := range s.Favorites {
		if fav.Key() == key {
			return true
		}
	}
	return false
}

// ShowFavorites reports whether the favorites view is the active one: the
// query is blank and no airport is selected.
func (s UiState) ShowFavorites() bool {
	return strings.TrimSpace(s.Query) == "" && s.Selected == nil
}

func emptyState() UiState {
	return UiState{
		Suggestions: []domain.Airport{},
		Flights:     []domain.Flight{},
		Favorites:   []domain.Favorite{},
	}
}
