package entity

// SeatTemplate is a physical seat of a theater. Its price is copied into
// every ShowSeat created for the theater.
type SeatTemplate struct {
	ID         int64  `db:"id"`
	TheaterID  int64  `db:"theater_id"`
	Label      string `db:"label"` // A1, A2, B1, etc.
	PriceCents int64  `db:"price_cents"`
}
