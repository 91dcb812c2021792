package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	// POST /api/movies - Add a movie; titles are unique
	r.Post("/api/movies", movieHandler.CreateMovie)

	// GET /api/movies/{id} - Movie details
	r.Get("/api/movies/{id}", movieHandler.GetMovie)
}
