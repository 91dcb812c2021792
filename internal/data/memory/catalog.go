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

type cinemaRepository struct{ h *handle }

func (r *cinemaRepository) Create(ctx context.Context, cinema *entity.Cinema) error {
	return r.h.write(func(s *state) error {
		cinema.ID = s.nextID("cinemas")
		cinema.CreatedAt = time.Now().UTC()
		s.cinemas[cinema.ID] = *cinema
		return nil
	})
}

func (r *cinemaRepository) FindByID(ctx context.Context, id int64) (*entity.Cinema, error) {
	var out *entity.Cinema
	err := r.h.read(func(s *state) error {
		if c, ok := s.cinemas[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

type theaterRepository struct{ h *handle }

func (r *theaterRepository) Create(ctx context.Context, theater *entity.Theater) error {
	return r.h.write(func(s *state) error {
		if _, ok := s.cinemas[theater.CinemaID]; !ok {
			return fmt.Errorf("create theater %s: cinema %d: %w", theater.Name, theater.CinemaID, ErrConstraint)
		}
		theater.ID = s.nextID("theaters")
		theater.CreatedAt = time.Now().UTC()
		s.theaters[theater.ID] = *theater
		return nil
	})
}

func (r *theaterRepository) FindByID(ctx context.Context, id int64) (*entity.Theater, error) {
	var out *entity.Theater
	err := r.h.read(func(s *state) error {
		if t, ok := s.theaters[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *theaterRepository) FindByCinemaID(ctx context.Context, cinemaID int64) ([]*entity.Theater, error) {
	var out []*entity.Theater
	err := r.h.read(func(s *state) error {
		for _, t := range s.theaters {
			if t.CinemaID == cinemaID {
				out = append(out, &t)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Theater) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

type movieRepository struct{ h *handle }

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	if movie.DurationSeconds <= 0 {
		return fmt.Errorf("create movie %s: duration: %w", movie.Title, ErrConstraint)
	}
	return r.h.write(func(s *state) error {
		for _, m := range s.movies {
			if m.Title == movie.Title {
				return fmt.Errorf("create movie %s: %w", movie.Title, repository.ErrDuplicate)
			}
		}
		movie.ID = s.nextID("movies")
		movie.CreatedAt = time.Now().UTC()
		s.movies[movie.ID] = *movie
		return nil
	})
}

func (r *movieRepository) FindByID(ctx context.Context, id int64) (*entity.Movie, error) {
	var out *entity.Movie
	err := r.h.read(func(s *state) error {
		if m, ok := s.movies[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

type userRepository struct{ h *handle }

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.h.write(func(s *state) error {
		for _, u := range s.users {
			if u.Email == user.Email {
				return fmt.Errorf("create user %s: duplicate email: %w", user.Email, ErrConstraint)
			}
		}
		user.ID = s.nextID("users")
		user.CreatedAt = time.Now().UTC()
		s.users[user.ID] = *user
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.h.read(func(s *state) error {
		if u, ok := s.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

type seatTemplateRepository struct{ h *handle }

func (r *seatTemplateRepository) CreateBatch(ctx context.Context, seats []*entity.SeatTemplate) error {
	return r.h.write(func(s *state) error {
		seen := map[string]bool{}
		for _, t := range s.templates {
			seen[fmt.Sprintf("%d/%s", t.TheaterID, t.Label)] = true
		}
		for _, seat := range seats {
			key := fmt.Sprintf("%d/%s", seat.TheaterID, seat.Label)
			if _, ok := s.theaters[seat.TheaterID]; !ok || seen[key] || seat.PriceCents < 0 {
				return fmt.Errorf("create seat template %s: %w", key, ErrConstraint)
			}
			seen[key] = true
		}
		for _, seat := range seats {
			seat.ID = s.nextID("seat_templates")
			s.templates[seat.ID] = *seat
		}
		return nil
	})
}

func (r *seatTemplateRepository) FindByTheaterID(ctx context.Context, theaterID int64) ([]*entity.SeatTemplate, error) {
	var out []*entity.SeatTemplate
	err := r.h.read(func(s *state) error {
		for _, t := range s.templates {
			if t.TheaterID == theaterID {
				out = append(out, &t)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.SeatTemplate) int { return cmp.Compare(a.Label, b.Label) })
	return out, err
}
