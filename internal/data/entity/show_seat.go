package entity

// ShowSeat is one seat's reservation slot for one show. A nil BookingID means
// the seat is available.
type ShowSeat struct {
	ID             int64  `db:"id"`
	ShowID         int64  `db:"show_id"`
	SeatTemplateID int64  `db:"seat_template_id"`
	Label          string `db:"label"`
	PriceCents     int64  `db:"price_cents"`
	BookingID      *int64 `db:"booking_id"`
}

func (s *ShowSeat) Available() bool {
	return s.BookingID == nil
}

func (s *ShowSeat) OwnedBy(bookingID int64) bool {
	return s.BookingID != nil && *s.BookingID == bookingID
}

// Labels returns the labels of seats in order.
func Labels(seats []ShowSeat) []string {
	labels := make([]string, len(seats))
	for i := range seats {
		labels[i] = seats[i].Label
	}
	return labels
}
