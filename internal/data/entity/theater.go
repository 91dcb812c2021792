package entity

// Theater is a single screening room of a cinema.
type Theater struct {
	Base
	CinemaID int64  `db:"cinema_id"`
	Name     string `db:"name"`
}
