package entity

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// BookingStatus is a closed set. The zero value is not a valid status.
type BookingStatus uint8

const (
	BookingStatusPending BookingStatus = iota + 1
	BookingStatusPaid
	BookingStatusCancelled
)

var bookingStatusNames = map[BookingStatus]string{
	BookingStatusPending:   "Pending",
	BookingStatusPaid:      "Paid",
	BookingStatusCancelled: "Cancelled",
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	for status, name := range bookingStatusNames {
		if name == s {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown booking status %q", s)
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingStatusNames[s]
	return ok
}

// Active reports whether a booking in this status holds seats.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusPaid
}

func (s BookingStatus) String() string {
	if name, ok := bookingStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("BookingStatus(%d)", uint8(s))
}

func (s BookingStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid booking status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *BookingStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseBookingStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Scan implements sql.Scanner so pgx can read the text column directly.
func (s *BookingStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("scan booking status from %T", src)
	}
}

func (s BookingStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid booking status %d", uint8(s))
	}
	return s.String(), nil
}

type Booking struct {
	Base
	OrderRef  string        `db:"order_ref"`
	UserID    int64         `db:"user_id"`
	ShowID    int64         `db:"show_id"`
	SeatCount int           `db:"seat_count"`
	Status    BookingStatus `db:"status"`
	UpdatedAt time.Time     `db:"updated_at"`
}
