package entity

import (
	"time"
)

// Show is one screening of a movie in a theater. StartsAt and EndsAt are UTC
// instants on ShowDate, and the interval is closed-open.
type Show struct {
	Base
	MovieID   int64     `db:"movie_id"`
	TheaterID int64     `db:"theater_id"`
	ShowDate  time.Time `db:"show_date"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
}

// Overlaps reports whether [start, end) intersects the show's interval.
// Back-to-back intervals do not overlap.
func (s *Show) Overlaps(start, end time.Time) bool {
	return !(!start.Before(s.EndsAt) || !end.After(s.StartsAt))
}

// DateOf truncates t to the UTC midnight of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
