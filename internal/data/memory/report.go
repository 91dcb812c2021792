package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"cinema-ticketing/internal/data/entity"
)

type reportRepository struct{ h *handle }

func (r *reportRepository) listShows(match func(s *state, sh entity.Show, t entity.Theater) bool) ([]entity.ShowListing, error) {
	out := []entity.ShowListing{}
	err := r.h.read(func(s *state) error {
		for _, sh := range s.shows {
			t := s.theaters[sh.TheaterID]
			if !match(s, sh, t) {
				continue
			}
			out = append(out, entity.ShowListing{
				ShowID:      sh.ID,
				CinemaID:    t.CinemaID,
				CinemaName:  s.cinemas[t.CinemaID].Name,
				TheaterID:   t.ID,
				TheaterName: t.Name,
				MovieID:     sh.MovieID,
				MovieTitle:  s.movies[sh.MovieID].Title,
				ShowDate:    sh.ShowDate,
				StartsAt:    sh.StartsAt,
				EndsAt:      sh.EndsAt,
			})
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.ShowListing) int {
		return cmp.Or(a.StartsAt.Compare(b.StartsAt), cmp.Compare(a.TheaterID, b.TheaterID))
	})
	return out, err
}

func (r *reportRepository) TheatersShowingMovie(ctx context.Context, movieID, cinemaID int64) ([]entity.ShowListing, error) {
	return r.listShows(func(_ *state, sh entity.Show, t entity.Theater) bool {
		return sh.MovieID == movieID && (cinemaID == 0 || t.CinemaID == cinemaID)
	})
}

func (r *reportRepository) ShowsStartingAt(ctx context.Context, startsAt time.Time) ([]entity.ShowListing, error) {
	return r.listShows(func(_ *state, sh entity.Show, _ entity.Theater) bool {
		return sh.StartsAt.Equal(startsAt)
	})
}

func (r *reportRepository) MovieShowsAtCinema(ctx context.Context, cinemaID, movieID int64, from, to time.Time) ([]entity.ShowListing, error) {
	from, to = entity.DateOf(from), entity.DateOf(to)
	return r.listShows(func(_ *state, sh entity.Show, t entity.Theater) bool {
		return t.CinemaID == cinemaID && sh.MovieID == movieID &&
			!sh.ShowDate.Before(from) && !sh.ShowDate.After(to)
	})
}

func (r *reportRepository) UsersWithPendingBookings(ctx context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.h.read(func(s *state) error {
		pending := map[int64]bool{}
		for _, b := range s.bookings {
			if b.Status == entity.BookingStatusPending {
				pending[b.UserID] = true
			}
		}
		for id := range pending {
			if u, ok := s.users[id]; ok {
				out = append(out, &u)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.User) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *reportRepository) BookingsForUser(ctx context.Context, userID int64, limit, offset int) ([]entity.BookingListing, error) {
	out := []entity.BookingListing{}
	err := r.h.read(func(s *state) error {
		for _, b := range s.bookings {
			if b.UserID != userID {
				continue
			}
			sh := s.shows[b.ShowID]
			labels := []string{}
			for _, seat := range s.seats {
				if seat.OwnedBy(b.ID) {
					labels = append(labels, s.templates[seat.SeatTemplateID].Label)
				}
			}
			slices.Sort(labels)
			out = append(out, entity.BookingListing{
				Booking:     b,
				MovieTitle:  s.movies[sh.MovieID].Title,
				TheaterName: s.theaters[sh.TheaterID].Name,
				StartsAt:    sh.StartsAt,
				EndsAt:      sh.EndsAt,
				SeatLabels:  labels,
			})
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.BookingListing) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})

	if offset >= len(out) {
		return []entity.BookingListing{}, err
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *reportRepository) CountBookingsForUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.h.read(func(s *state) error {
		for _, b := range s.bookings {
			if b.UserID == userID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *reportRepository) MoviesByTitleReleasedAfter(ctx context.Context, title string, after time.Time) ([]*entity.Movie, error) {
	var out []*entity.Movie
	title = strings.ToLower(title)
	err := r.h.read(func(s *state) error {
		for _, m := range s.movies {
			if strings.Contains(strings.ToLower(m.Title), title) && !m.ReleaseDate.Before(after) {
				out = append(out, &m)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Movie) int {
		return cmp.Or(a.ReleaseDate.Compare(b.ReleaseDate), cmp.Compare(a.Title, b.Title))
	})
	return out, err
}
