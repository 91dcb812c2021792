package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type BookingResponse struct {
	ID        int64                `json:"id"`
	OrderRef  string               `json:"order_ref"`
	UserID    int64                `json:"user_id"`
	ShowID    int64                `json:"show_id"`
	SeatCount int                  `json:"seat_count"`
	Status    entity.BookingStatus `json:"status"`
	Seats     []ShowSeatResponse   `json:"seats"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type BookingListingResponse struct {
	ID          int64                `json:"id"`
	OrderRef    string               `json:"order_ref"`
	ShowID      int64                `json:"show_id"`
	MovieTitle  string               `json:"movie_title"`
	TheaterName string               `json:"theater_name"`
	StartsAt    time.Time            `json:"starts_at"`
	EndsAt      time.Time            `json:"ends_at"`
	SeatCount   int                  `json:"seat_count"`
	SeatLabels  []string             `json:"seat_labels"`
	Status      entity.BookingStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

type BatchFailureResponse struct {
	BookingID int64  `json:"booking_id"`
	Error     string `json:"error"`
}

type BatchResponse struct {
	Succeeded []int64                `json:"succeeded"`
	Skipped   []int64                `json:"skipped"`
	Failed    []BatchFailureResponse `json:"failed"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking, seats []entity.ShowSeat) BookingResponse {
	return BookingResponse{
		ID:        booking.ID,
		OrderRef:  booking.OrderRef,
		UserID:    booking.UserID,
		ShowID:    booking.ShowID,
		SeatCount: booking.SeatCount,
		Status:    booking.Status,
		Seats:     ShowSeatsToResponse(seats),
		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	}
}

func BookingListingToResponse(l entity.BookingListing) BookingListingResponse {
	labels := l.SeatLabels
	if labels == nil {
		labels = []string{}
	}
	return BookingListingResponse{
		ID:          l.ID,
		OrderRef:    l.OrderRef,
		ShowID:      l.ShowID,
		MovieTitle:  l.MovieTitle,
		TheaterName: l.TheaterName,
		StartsAt:    l.StartsAt,
		EndsAt:      l.EndsAt,
		SeatCount:   l.SeatCount,
		SeatLabels:  labels,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
	}
	return out
}
