package entity

import (
	"time"
)

// ShowListing is a read model joining a show with its movie, theater and cinema.
type ShowListing struct {
	ShowID      int64
	CinemaID    int64
	CinemaName  string
	TheaterID   int64
	TheaterName string
	MovieID     int64
	MovieTitle  string
	ShowDate    time.Time
	StartsAt    time.Time
	EndsAt      time.Time
}

type BookingListing struct {
	Booking
	MovieTitle  string
	TheaterName string
	StartsAt    time.Time
	EndsAt      time.Time
	SeatLabels  []string
}
