package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireShow(r chi.Router, showHandler *adaptor.ShowHandler) {
	// POST /api/shows - Schedule a show and create its seat inventory
	r.Post("/api/shows", showHandler.ScheduleShow)

	// GET /api/shows/{id}/seats - Available seats in label order
	r.Get("/api/shows/{id}/seats", showHandler.ListAvailableSeats)

	// DELETE /api/cinemas/{id}/shows?date=&cascade= - Remove a cinema's shows on a date
	r.Delete("/api/cinemas/{id}/shows", showHandler.RemoveShows)
}
