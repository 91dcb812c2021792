package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"cinema-ticketing/internal/data/entity"
)

type showRepository struct{ h *handle }

func (r *showRepository) Create(ctx context.Context, show *entity.Show) error {
	return r.h.write(func(s *state) error {
		if _, ok := s.theaters[show.TheaterID]; !ok {
			return fmt.Errorf("create show: theater %d: %w", show.TheaterID, ErrConstraint)
		}
		if _, ok := s.movies[show.MovieID]; !ok {
			return fmt.Errorf("create show: movie %d: %w", show.MovieID, ErrConstraint)
		}
		if !show.EndsAt.After(show.StartsAt) {
			return fmt.Errorf("create show: empty interval: %w", ErrConstraint)
		}
		show.ID = s.nextID("shows")
		show.CreatedAt = time.Now().UTC()
		show.ShowDate = entity.DateOf(show.ShowDate)
		s.shows[show.ID] = *show
		return nil
	})
}

func (r *showRepository) FindByID(ctx context.Context, id int64) (*entity.Show, error) {
	var out *entity.Show
	err := r.h.read(func(s *state) error {
		if sh, ok := s.shows[id]; ok {
			out = &sh
		}
		return nil
	})
	return out, err
}

func (r *showRepository) LockByID(ctx context.Context, id int64) (*entity.Show, error) {
	return r.FindByID(ctx, id)
}

func (r *showRepository) LockSchedule(ctx context.Context, theaterID int64, date time.Time) error {
	return nil
}

func (r *showRepository) FindByTheaterAndDate(ctx context.Context, theaterID int64, date time.Time) ([]*entity.Show, error) {
	day := entity.DateOf(date)
	var out []*entity.Show
	err := r.h.read(func(s *state) error {
		for _, sh := range s.shows {
			if sh.TheaterID == theaterID && sh.ShowDate.Equal(day) {
				out = append(out, &sh)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Show) int {
		return cmp.Or(a.StartsAt.Compare(b.StartsAt), cmp.Compare(a.ID, b.ID))
	})
	return out, err
}

func (r *showRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	var n int64
	err := r.h.write(func(s *state) error {
		for _, seat := range s.seats {
			if slices.Contains(ids, seat.ShowID) {
				return fmt.Errorf("delete shows: seat %d still references show %d: %w", seat.ID, seat.ShowID, ErrConstraint)
			}
		}
		for _, b := range s.bookings {
			if slices.Contains(ids, b.ShowID) {
				return fmt.Errorf("delete shows: booking %d still references show %d: %w", b.ID, b.ShowID, ErrConstraint)
			}
		}
		for _, id := range ids {
			if _, ok := s.shows[id]; ok {
				delete(s.shows, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

type showSeatRepository struct{ h *handle }

func (r *showSeatRepository) CreateBatch(ctx context.Context, seats []*entity.ShowSeat) error {
	return r.h.write(func(s *state) error {
		seen := map[[2]int64]bool{}
		for _, seat := range s.seats {
			seen[[2]int64{seat.ShowID, seat.SeatTemplateID}] = true
		}
		for _, seat := range seats {
			key := [2]int64{seat.ShowID, seat.SeatTemplateID}
			_, showOK := s.shows[seat.ShowID]
			_, tmplOK := s.templates[seat.SeatTemplateID]
			if !showOK || !tmplOK || seen[key] {
				return fmt.Errorf("create show seat %v: %w", key, ErrConstraint)
			}
			seen[key] = true
		}
		for _, seat := range seats {
			seat.ID = s.nextID("show_seats")
			seat.Label = s.templates[seat.SeatTemplateID].Label
			s.seats[seat.ID] = *seat
		}
		return nil
	})
}

// withLabel fills the label from the template, as the Postgres join does.
func withLabel(s *state, seat entity.ShowSeat) entity.ShowSeat {
	seat.Label = s.templates[seat.SeatTemplateID].Label
	return seat
}

func sortByLabel(seats []entity.ShowSeat) {
	slices.SortFunc(seats, func(a, b entity.ShowSeat) int {
		return cmp.Or(cmp.Compare(a.Label, b.Label), cmp.Compare(a.ID, b.ID))
	})
}

func (r *showSeatRepository) FindAvailable(ctx context.Context, showID int64, limit int) ([]entity.ShowSeat, error) {
	out := []entity.ShowSeat{}
	err := r.h.read(func(s *state) error {
		for _, seat := range s.seats {
			if seat.ShowID == showID && seat.BookingID == nil {
				out = append(out, withLabel(s, seat))
			}
		}
		return nil
	})
	sortByLabel(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *showSeatRepository) FindByShowAndLabel(ctx context.Context, showID int64, label string) (*entity.ShowSeat, error) {
	var out *entity.ShowSeat
	err := r.h.read(func(s *state) error {
		for _, seat := range s.seats {
			if seat.ShowID == showID && s.templates[seat.SeatTemplateID].Label == label {
				found := withLabel(s, seat)
				out = &found
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *showSeatRepository) FindByBookingID(ctx context.Context, bookingID int64) ([]entity.ShowSeat, error) {
	out := []entity.ShowSeat{}
	err := r.h.read(func(s *state) error {
		for _, seat := range s.seats {
			if seat.OwnedBy(bookingID) {
				out = append(out, withLabel(s, seat))
			}
		}
		return nil
	})
	sortByLabel(out)
	return out, err
}

func (r *showSeatRepository) CountByBookingID(ctx context.Context, bookingID int64) (int, error) {
	seats, err := r.FindByBookingID(ctx, bookingID)
	return len(seats), err
}

func (r *showSeatRepository) CountReservedByShowIDs(ctx context.Context, showIDs []int64) (int, error) {
	var n int
	err := r.h.read(func(s *state) error {
		for _, seat := range s.seats {
			if seat.BookingID != nil && slices.Contains(showIDs, seat.ShowID) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *showSeatRepository) Claim(ctx context.Context, bookingID int64, seatIDs []int64) (int64, error) {
	var n int64
	err := r.h.write(func(s *state) error {
		if _, ok := s.bookings[bookingID]; !ok {
			return fmt.Errorf("claim seats: booking %d: %w", bookingID, ErrConstraint)
		}
		for _, id := range seatIDs {
			seat, ok := s.seats[id]
			if !ok || seat.BookingID != nil {
				continue
			}
			seat.BookingID = ptr(bookingID)
			s.seats[id] = seat
			n++
		}
		return nil
	})
	return n, err
}

func (r *showSeatRepository) ReleaseByBookingID(ctx context.Context, bookingID int64) (int64, error) {
	var n int64
	err := r.h.write(func(s *state) error {
		for id, seat := range s.seats {
			if seat.OwnedBy(bookingID) {
				seat.BookingID = nil
				s.seats[id] = seat
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *showSeatRepository) ReleaseSeat(ctx context.Context, seatID, bookingID int64) (int64, error) {
	var n int64
	err := r.h.write(func(s *state) error {
		seat, ok := s.seats[seatID]
		if ok && seat.OwnedBy(bookingID) {
			seat.BookingID = nil
			s.seats[seatID] = seat
			n = 1
		}
		return nil
	})
	return n, err
}

func (r *showSeatRepository) DeleteByShowIDs(ctx context.Context, showIDs []int64) (int64, error) {
	var n int64
	err := r.h.write(func(s *state) error {
		for id, seat := range s.seats {
			if slices.Contains(showIDs, seat.ShowID) {
				delete(s.seats, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
