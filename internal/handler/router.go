package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/flight-search/backend/api"
)

// Handler returns the chi router serving every endpoint of s.
// Middleware is applied by the caller.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/airports", func(r chi.Router) {
		r.Get("/", s.SearchAirports)
		r.Get("/{code}", s.GetAirport)
		r.Get("/{code}/flights", s.ListFlights)
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Get("/", s.ListFavorites)
		r.Put("/{departure}/{destination}", s.AddFavorite)
		r.Delete("/{departure}/{destination}", s.RemoveFavorite)
		r.Post("/{departure}/{destination}/toggle", s.ToggleFavorite)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/query", s.SetSessionQuery)
			r.Delete("/query", s.ClearSessionQuery)
			r.Put("/selection", s.SelectSessionAirport)
			r.Post("/toggle", s.ToggleSessionFavorite)
			r.Get("/stream", s.StreamSession)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: ErrorDetail{Code: "method_not_allowed", Message: "method not allowed"}})
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(api.OpenAPI)
}
