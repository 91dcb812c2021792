package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReport(r chi.Router, reportHandler *adaptor.ReportHandler) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/movies", reportHandler.MoviesByTitleReleasedAfter)
		r.Get("/movies/{id}/theaters", reportHandler.TheatersShowingMovie)
		r.Get("/shows", reportHandler.ShowsStartingAt)
		r.Get("/cinemas/{id}/movies/{movieID}/shows", reportHandler.MovieShowsAtCinema)
		r.Get("/users/pending", reportHandler.UsersWithPendingBookings)
		r.Get("/users/{id}/bookings", reportHandler.BookingsForUser)
	})
}
