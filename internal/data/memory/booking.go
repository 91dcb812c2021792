package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
)

type bookingRepository struct{ h *handle }

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if !booking.Status.Valid() || booking.SeatCount < 1 {
		return fmt.Errorf("create booking %s: %w", booking.OrderRef, ErrConstraint)
	}
	return r.h.write(func(s *state) error {
		if _, ok := s.users[booking.UserID]; !ok {
			return fmt.Errorf("create booking %s: user %d: %w", booking.OrderRef, booking.UserID, ErrConstraint)
		}
		if _, ok := s.shows[booking.ShowID]; !ok {
			return fmt.Errorf("create booking %s: show %d: %w", booking.OrderRef, booking.ShowID, ErrConstraint)
		}
		for _, b := range s.bookings {
			if b.OrderRef == booking.OrderRef {
				return fmt.Errorf("create booking %s: duplicate order ref: %w", booking.OrderRef, ErrConstraint)
			}
		}
		booking.ID = s.nextID("bookings")
		if booking.CreatedAt.IsZero() {
			booking.CreatedAt = time.Now().UTC()
			booking.UpdatedAt = booking.CreatedAt
		}
		s.bookings[booking.ID] = *booking
		return nil
	})
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	var out *entity.Booking
	err := r.h.read(func(s *state) error {
		if b, ok := s.bookings[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *bookingRepository) LockByID(ctx context.Context, id int64) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update booking %d status: %w", id, ErrConstraint)
	}
	return r.h.write(func(s *state) error {
		b, ok := s.bookings[id]
		if !ok {
			return fmt.Errorf("update booking %d status: %w", id, repository.ErrNoRows)
		}
		b.Status = status
		b.UpdatedAt = time.Now().UTC()
		s.bookings[id] = b
		return nil
	})
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	return r.h.write(func(s *state) error {
		if _, ok := s.bookings[id]; !ok {
			return fmt.Errorf("delete booking %d: %w", id, repository.ErrNoRows)
		}
		for _, seat := range s.seats {
			if seat.OwnedBy(id) {
				return fmt.Errorf("delete booking %d: seat %d still references it: %w", id, seat.ID, ErrConstraint)
			}
		}
		delete(s.bookings, id)
		return nil
	})
}

func (r *bookingRepository) FindIDsByStatus(ctx context.Context, status entity.BookingStatus, createdBefore time.Time) ([]int64, error) {
	var ids []int64
	err := r.h.read(func(s *state) error {
		for _, b := range s.bookings {
			if b.Status != status {
				continue
			}
			if !createdBefore.IsZero() && !b.CreatedAt.Before(createdBefore) {
				continue
			}
			ids = append(ids, b.ID)
		}
		return nil
	})
	slices.Sort(ids)
	return ids, err
}

func (r *bookingRepository) FindActiveByShowIDs(ctx context.Context, showIDs []int64) ([]*entity.Booking, error) {
	var out []*entity.Booking
	err := r.h.read(func(s *state) error {
		for _, b := range s.bookings {
			if b.Status.Active() && slices.Contains(showIDs, b.ShowID) {
				out = append(out, &b)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Booking) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *bookingRepository) DeleteCancelledByShowIDs(ctx context.Context, showIDs []int64) (int64, error) {
	var n int64
	err := r.h.write(func(s *state) error {
		var doomed []int64
		for id, b := range s.bookings {
			if b.Status == entity.BookingStatusCancelled && slices.Contains(showIDs, b.ShowID) {
				doomed = append(doomed, id)
			}
		}
		for _, seat := range s.seats {
			if seat.BookingID != nil && slices.Contains(doomed, *seat.BookingID) {
				return fmt.Errorf("delete cancelled bookings: seat %d still references booking %d: %w",
					seat.ID, *seat.BookingID, ErrConstraint)
			}
		}
		for _, id := range doomed {
			delete(s.bookings, id)
			n++
		}
		return nil
	})
	return n, err
}

type paymentRepository struct{ h *handle }

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.h.write(func(s *state) error {
		payment.ID = s.nextID("payments")
		payment.CreatedAt = time.Now().UTC()
		s.payments[payment.ID] = *payment
		return nil
	})
}

func (r *paymentRepository) ExistsByBookingID(ctx context.Context, bookingID int64) (bool, error) {
	var found bool
	err := r.h.read(func(s *state) error {
		for _, p := range s.payments {
			if p.BookingID == bookingID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *paymentRepository) DeleteByBookingID(ctx context.Context, bookingID int64) error {
	return r.h.write(func(s *state) error {
		var n int
		for id, p := range s.payments {
			if p.BookingID == bookingID {
				delete(s.payments, id)
				n++
			}
		}
		if n == 0 {
			return fmt.Errorf("delete payment of booking %d: %w", bookingID, repository.ErrNoRows)
		}
		return nil
	})
}
