package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/{id}", bookingHandler.GetBooking)
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)
		r.Post("/{id}/swap", bookingHandler.SwapSeat)
		r.Delete("/{id}/payment", bookingHandler.RemovePayment)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Post("/cancel-pending", bookingHandler.CancelAllPending)
		r.Post("/clear-cancelled", bookingHandler.ClearCancelled)
	})
}
