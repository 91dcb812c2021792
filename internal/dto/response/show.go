package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type ShowResponse struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movie_id"`
	TheaterID int64     `json:"theater_id"`
	ShowDate  string    `json:"show_date"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

type ShowSeatResponse struct {
	ID         int64  `json:"id"`
	Label      string `json:"label"`
	PriceCents int64  `json:"price_cents"`
	BookingID  *int64 `json:"booking_id,omitempty"`
}

type ShowListingResponse struct {
	ShowID      int64     `json:"show_id"`
	CinemaID    int64     `json:"cinema_id"`
	CinemaName  string    `json:"cinema_name"`
	TheaterID   int64     `json:"theater_id"`
	TheaterName string    `json:"theater_name"`
	MovieID     int64     `json:"movie_id"`
	MovieTitle  string    `json:"movie_title"`
	ShowDate    string    `json:"show_date"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

type RemoveShowsResponse struct {
	ShowIDs             []int64 `json:"show_ids"`
	CancelledBookingIDs []int64 `json:"cancelled_booking_ids"`
	DeletedBookings     int64   `json:"deleted_bookings"`
	DeletedSeats        int64   `json:"deleted_seats"`
}

// Helper converters
func ShowToResponse(show *entity.Show) ShowResponse {
	return ShowResponse{
		ID:        show.ID,
		MovieID:   show.MovieID,
		TheaterID: show.TheaterID,
		ShowDate:  show.ShowDate.Format(time.DateOnly),
		StartsAt:  show.StartsAt,
		EndsAt:    show.EndsAt,
	}
}

func ShowSeatsToResponse(seats []entity.ShowSeat) []ShowSeatResponse {
	out := make([]ShowSeatResponse, len(seats))
	for i, seat := range seats {
		out[i] = ShowSeatResponse{
			ID:         seat.ID,
			Label:      seat.Label,
			PriceCents: seat.PriceCents,
			BookingID:  seat.BookingID,
		}
	}
	return out
}

func ShowListingsToResponse(listings []entity.ShowListing) []ShowListingResponse {
	out := make([]ShowListingResponse, len(listings))
	for i, l := range listings {
		out[i] = ShowListingResponse{
			ShowID:      l.ShowID,
			CinemaID:    l.CinemaID,
			CinemaName:  l.CinemaName,
			TheaterID:   l.TheaterID,
			TheaterName: l.TheaterName,
			MovieID:     l.MovieID,
			MovieTitle:  l.MovieTitle,
			ShowDate:    l.ShowDate.Format(time.DateOnly),
			StartsAt:    l.StartsAt,
			EndsAt:      l.EndsAt,
		}
	}
	return out
}
