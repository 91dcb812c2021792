package entity

type Payment struct {
	Base
	BookingID   int64  `db:"booking_id"`
	AmountCents int64  `db:"amount_cents"`
	Method      string `db:"method"`
}
