package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/flight-search/backend/internal/session"
)

// CreateSession handles POST /sessions.
// The new session has already restored the saved query when its state is
// first published, but the restore's suggestion search may still be running.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, c, err := s.sessions.Create()
	if errors.Is(err, session.ErrClosed) {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: ErrorDetail{Code: "unavailable", Message: "server is shutting down"}})
		return
	}
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id, State: stateToResponse(c.State())})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	s.writeSession(w, r, http.StatusOK, c)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	if err := s.sessions.Delete(id); err != nil {
		s.writeError(w, r, err, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetSessionQuery handles PUT /sessions/{id}/query.
// Responds 202 with the state right after the event; suggestions follow
// asynchronously on the stream.
func (s *Server) SetSessionQuery(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	var req QueryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Query == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("query is required"))
		return
	}
	c.OnQueryChange(*req.Query)
	s.writeSession(w, r, http.StatusAccepted, c)
}

// ClearSessionQuery handles DELETE /sessions/{id}/query.
func (s *Server) ClearSessionQuery(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	c.OnClearSearch()
	s.writeSession(w, r, http.StatusAccepted, c)
}

// SelectSessionAirport handles PUT /sessions/{id}/selection.
// The airport is looked up first so an unknown code is a 404 rather than a
// selection of nothing.
func (s *Server) SelectSessionAirport(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	var req SelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	airport, err := s.routes.AirportByCode(r.Context(), req.Code)
	if err != nil {
		s.writeError(w, r, err, "airport not found")
		return
	}
	c.OnAirportSelected(airport)
	s.writeSession(w, r, http.StatusAccepted, c)
}

// ToggleSessionFavorite handles POST /sessions/{id}/toggle.
// The new favorite set reaches every session through its favorites feed.
func (s *Server) ToggleSessionFavorite(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	var req ToggleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	flight := req.toFlight()
	if flight.DepartureCode == "" || flight.DestinationCode == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("departure_code and destination_code are required"))
		return
	}
	c.OnToggleFavorite(flight)
	s.writeSession(w, r, http.StatusAccepted, c)
}

func (s *Server) sessionFromPath(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return nil, false
	}
	c, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, r, err, "session not found")
		return nil, false
	}
	return c, true
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, c *session.Controller) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	writeJSON(w, status, SessionResponse{ID: id, State: stateToResponse(c.State())})
}
