package handler

import (
	"net/http"

	"github.com/pkordes/flight-search/backend/internal/domain"
)

// ListFavorites handles GET /favorites.
func (s *Server) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.favorites.List(r.Context())
	if err != nil {
		s.writeError(w, r, err, "favorite not found")
		return
	}
	writeJSON(w, http.StatusOK, favoritesToResponse(favs))
}

// AddFavorite handles PUT /favorites/{departure}/{destination}.
// Adding an existing favorite succeeds without creating a duplicate.
func (s *Server) AddFavorite(w http.ResponseWriter, r *http.Request) {
	key, ok := routeKeyFromPath(w, r)
	if !ok {
		return
	}
	if err := s.favorites.Add(r.Context(), key); err != nil {
		s.writeError(w, r, err, "favorite not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /favorites/{departure}/{destination}.
// Removing a route that is not a favorite succeeds.
func (s *Server) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	key, ok := routeKeyFromPath(w, r)
	if !ok {
		return
	}
	if err := s.favorites.Remove(r.Context(), key); err != nil {
		s.writeError(w, r, err, "favorite not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite handles POST /favorites/{departure}/{destination}/toggle and
// returns the route's new favorite status.
func (s *Server) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	key, ok := routeKeyFromPath(w, r)
	if !ok {
		return
	}
	now, err := s.favorites.Toggle(r.Context(), domain.Flight{
		DepartureCode:   key.DepartureCode,
		DestinationCode: key.DestinationCode,
	})
	if err != nil {
		s.writeError(w, r, err, "favorite not found")
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{Favorite: now})
}

func routeKeyFromPath(w http.ResponseWriter, r *http.Request) (domain.RouteKey, bool) {
	dep, err := pathString(r, "departure")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return domain.RouteKey{}, false
	}
	dst, err := pathString(r, "destination")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return domain.RouteKey{}, false
	}
	return domain.RouteKey{
		DepartureCode:   domain.NormalizeCode(dep),
		DestinationCode: domain.NormalizeCode(dst),
	}, true
}
