package handler

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/flight-search/backend/internal/domain"
	"github.com/pkordes/flight-search/backend/internal/session"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Airport is the wire form of domain.Airport.
type Airport struct {
	ID         int64  `json:"id"`
	IATACode   string `json:"iata_code"`
	Name       string `json:"name"`
	Passengers int64  `json:"passengers"`
}

// Flight is a route from the selected airport, decorated with favorite status.
type Flight struct {
	DepartureCode   string `json:"departure_code"`
	DepartureName   string `json:"departure_name"`
	DestinationCode string `json:"destination_code"`
	DestinationName string `json:"destination_name"`
	Favorite        bool   `json:"favorite"`
}

// Favorite is the wire form of domain.Favorite.
type Favorite struct {
	ID              int64  `json:"id"`
	DepartureCode   string `json:"departure_code"`
	DestinationCode string `json:"destination_code"`
}

// ToggleResponse reports the favorite status after a toggle.
type ToggleResponse struct {
	Favorite bool `json:"favorite"`
}

// SessionState is the wire form of session.UiState.
type SessionState struct {
	Query         string     `json:"query"`
	Suggestions   []Airport  `json:"suggestions"`
	Selected      *Airport   `json:"selected"`
	Flights       []Flight   `json:"flights"`
	Favorites     []Favorite `json:"favorites"`
	ShowFavorites bool       `json:"show_favorites"`
	Error         string     `json:"error,omitempty"`
	Version       uint64     `json:"version"`
}

// SessionResponse is returned by the /sessions endpoints.
type SessionResponse struct {
	ID    openapi_types.UUID `json:"id"`
	State SessionState       `json:"state"`
}

// QueryRequest is the body of PUT /sessions/{id}/query.
type QueryRequest struct {
	Query *string `json:"query"`
}

// SelectionRequest is the body of PUT /sessions/{id}/selection.
type SelectionRequest struct {
	Code string `json:"code"`
}

// ToggleRequest is the body of POST /sessions/{id}/toggle.
type ToggleRequest struct {
	DepartureCode   string `json:"departure_code"`
	DepartureName   string `json:"departure_name"`
	DestinationCode string `json:"destination_code"`
	DestinationName string `json:"destination_name"`
}

// ---- mapping ---------------------------------------------------------------

func airportToResponse(a domain.Airport) Airport {
	return Airport{ID: a.ID, IATACode: a.IATACode, Name: a.Name, Passengers: a.Passengers}
}

func airportsToResponse(as []domain.Airport) []Airport {
	out := make([]Airport, len(as))
	for i, a := range as {
		out[i] = airportToResponse(a)
	}
	return out
}

func flightToResponse(f domain.Flight, favorite bool) Flight {
	return Flight{
		DepartureCode:   f.DepartureCode,
		DepartureName:   f.DepartureName,
		DestinationCode: f.DestinationCode,
		DestinationName: f.DestinationName,
		Favorite:        favorite,
	}
}

func favoritesToResponse(fs []domain.Favorite) []Favorite {
	out := make([]Favorite, len(fs))
	for i, f := range fs {
		out[i] = Favorite{ID: f.ID, DepartureCode: f.DepartureCode, DestinationCode: f.DestinationCode}
	}
	return out
}

func stateToResponse(st session.UiState) SessionState {
	flights := make([]Flight, len(st.Flights))
	for i, f := range st.Flights {
		flights[i] = flightToResponse(f, st.IsFavorite(f))
	}
	out := SessionState{
		Query:         st.Query,
		Suggestions:   airportsToResponse(st.Suggestions),
		Flights:       flights,
		Favorites:     favoritesToResponse(st.Favorites),
		ShowFavorites: st.ShowFavorites(),
		Error:         st.Err,
		Version:       st.Version,
	}
	if st.Selected != nil {
		a := airportToResponse(*st.Selected)
		out.Selected = &a
	}
	return out
}

func (r ToggleRequest) toFlight() domain.Flight {
	return domain.Flight{
		DepartureCode:   domain.NormalizeCode(r.DepartureCode),
		DepartureName:   r.DepartureName,
		DestinationCode: domain.NormalizeCode(r.DestinationCode),
		DestinationName: r.DestinationName,
	}
}
