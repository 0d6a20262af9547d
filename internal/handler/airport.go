package handler

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/flight-search/backend/internal/domain"
)

// SearchAirports handles GET /airports?q=.
// A missing or blank q returns an empty list, not the whole directory.
func (s *Server) SearchAirports(w http.ResponseWriter, r *http.Request) {
	q, err := queryString(r, "q")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	airports, err := s.routes.SearchAirports(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err, "airport not found")
		return
	}
	writeJSON(w, http.StatusOK, airportsToResponse(airports))
}

// GetAirport handles GET /airports/{code}.
func (s *Server) GetAirport(w http.ResponseWriter, r *http.Request) {
	code, err := pathString(r, "code")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	airport, err := s.routes.AirportByCode(r.Context(), code)
	if err != nil {
		s.writeError(w, r, err, "airport not found")
		return
	}
	writeJSON(w, http.StatusOK, airportToResponse(airport))
}

// ListFlights handles GET /airports/{code}/flights.
// Flights and the favorite set are read concurrently; each flight carries
// its favorite status.
func (s *Server) ListFlights(w http.ResponseWriter, r *http.Request) {
	code, err := pathString(r, "code")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	departure, err := s.routes.AirportByCode(r.Context(), code)
	if err != nil {
		s.writeError(w, r, err, "airport not found")
		return
	}

	var (
		flights []domain.Flight
		favs    []domain.Favorite
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		flights, err = s.routes.FlightsFrom(ctx, departure)
		return err
	})
	g.Go(func() error {
		var err error
		favs, err = s.favorites.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, r, err, "airport not found")
		return
	}

	set := domain.NewFavoriteSet(favs)
	out := make([]Flight, len(flights))
	for i, f := range flights {
		out[i] = flightToResponse(f, set.Contains(f.Key()))
	}
	writeJSON(w, http.StatusOK, out)
}
