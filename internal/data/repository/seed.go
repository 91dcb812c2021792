package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
)

// SeedResult identifies the demo catalog created by Seed.
type SeedResult struct {
	CinemaID  int64
	TheaterID int64
	MovieID   int64
	UserID    int64
	Seats     int
}

// Seed creates one cinema with one theater of rows A-E and seats 1-10
// (row E priced as premium), one movie and one user.
func Seed(ctx context.Context, repo *Repository) (*SeedResult, error) {
	var result SeedResult

	err := repo.WithinTx(ctx, func(ctx context.Context, tx *Repository) error {
		cinema := &entity.Cinema{Name: "Grand Cinema", City: "Riverside"}
		if err := tx.Cinema.Create(ctx, cinema); err != nil {
			return err
		}

		theater := &entity.Theater{CinemaID: cinema.ID, Name: "Screen 1"}
		if err := tx.Theater.Create(ctx, theater); err != nil {
			return err
		}

		var seats []*entity.SeatTemplate
		for _, row := range "ABCDE" {
			price := int64(1000)
			if row == 'E' {
				price = 1200
			}
			for n := 1; n <= 10; n++ {
				seats = append(seats, &entity.SeatTemplate{
					TheaterID:  theater.ID,
					Label:      fmt.Sprintf("%c%02d", row, n),
					PriceCents: price,
				})
			}
		}
		if err := tx.SeatTemplate.CreateBatch(ctx, seats); err != nil {
			return err
		}

		movie := &entity.Movie{
			Title:           "The Long Matinee",
			DurationSeconds: int64((2 * time.Hour).Seconds()),
			Language:        "en",
			ReleaseDate:     time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		}
		if err := tx.Movie.Create(ctx, movie); err != nil {
			return err
		}

		user := &entity.User{Email: "demo@example.com", Name: "Demo User"}
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}

		result = SeedResult{
			CinemaID:  cinema.ID,
			TheaterID: theater.ID,
			MovieID:   movie.ID,
			UserID:    user.ID,
			Seats:     len(seats),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	return &result, nil
}
