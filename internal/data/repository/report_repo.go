package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ReportRepository holds read-only joins used for listings.
type ReportRepository interface {
	// TheatersShowingMovie lists shows of a movie. cinemaID 0 means every cinema.
	TheatersShowingMovie(ctx context.Context, movieID, cinemaID int64) ([]entity.ShowListing, error)
	ShowsStartingAt(ctx context.Context, startsAt time.Time) ([]entity.ShowListing, error)
	MovieShowsAtCinema(ctx context.Context, cinemaID, movieID int64, from, to time.Time) ([]entity.ShowListing, error)
	UsersWithPendingBookings(ctx context.Context) ([]*entity.User, error)
	// MoviesByTitleReleasedAfter matches title case-insensitively and keeps
	// movies released on or after the given date, ordered by release date.
	MoviesByTitleReleasedAfter(ctx context.Context, title string, after time.Time) ([]*entity.Movie, error)
	BookingsForUser(ctx context.Context, userID int64, limit, offset int) ([]entity.BookingListing, error)
	CountBookingsForUser(ctx context.Context, userID int64) (int64, error)
}

type reportRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReportRepository(db database.Querier, log *zap.Logger) ReportRepository {
	return &reportRepository{
		db:  db,
		log: log.With(zap.String("repository", "report")),
	}
}

const showListingSelect = `
	SELECT s.id, c.id, c.name, t.id, t.name, m.id, m.title, s.show_date, s.starts_at, s.ends_at
	FROM shows s
	JOIN theaters t ON t.id = s.theater_id
	JOIN cinemas c ON c.id = t.cinema_id
	JOIN movies m ON m.id = s.movie_id
`

func (r *reportRepository) listShows(ctx context.Context, op string, query string, args ...any) ([]entity.ShowListing, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list shows", zap.Error(err), zap.String("report", op))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	listings := []entity.ShowListing{}
	for rows.Next() {
		var l entity.ShowListing
		err := rows.Scan(
			&l.ShowID,
			&l.CinemaID,
			&l.CinemaName,
			&l.TheaterID,
			&l.TheaterName,
			&l.MovieID,
			&l.MovieTitle,
			&l.ShowDate,
			&l.StartsAt,
			&l.EndsAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		l.ShowDate = entity.DateOf(l.ShowDate)
		l.StartsAt = l.StartsAt.UTC()
		l.EndsAt = l.EndsAt.UTC()
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

func (r *reportRepository) TheatersShowingMovie(ctx context.Context, movieID, cinemaID int64) ([]entity.ShowListing, error) {
	query := showListingSelect + `
		WHERE s.movie_id = $1 AND ($2 = 0 OR c.id = $2)
		ORDER BY s.starts_at, t.id
	`
	return r.listShows(ctx, "theaters showing movie", query, movieID, cinemaID)
}

func (r *reportRepository) ShowsStartingAt(ctx context.Context, startsAt time.Time) ([]entity.ShowListing, error) {
	query := showListingSelect + `
		WHERE s.starts_at = $1
		ORDER BY c.name, t.name
	`
	return r.listShows(ctx, "shows starting at", query, startsAt)
}

func (r *reportRepository) MovieShowsAtCinema(ctx context.Context, cinemaID, movieID int64, from, to time.Time) ([]entity.ShowListing, error) {
	query := showListingSelect + `
		WHERE c.id = $1 AND m.id = $2 AND s.show_date BETWEEN $3 AND $4
		ORDER BY s.starts_at, t.id
	`
	return r.listShows(ctx, "movie shows at cinema", query, cinemaID, movieID, from, to)
}

func (r *reportRepository) UsersWithPendingBookings(ctx context.Context) ([]*entity.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.created_at
		FROM users u
		WHERE EXISTS (SELECT 1 FROM bookings b WHERE b.user_id = u.id AND b.status = 'Pending')
		ORDER BY u.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list users with pending bookings", zap.Error(err))
		return nil, fmt.Errorf("list users with pending bookings: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.User, error) {
		var u entity.User
		err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
		return &u, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan users with pending bookings: %w", err)
	}

	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *reportRepository) MoviesByTitleReleasedAfter(ctx context.Context, title string, after time.Time) ([]*entity.Movie, error) {
	query := `
		SELECT id, title, duration_seconds, language, release_date, created_at
		FROM movies
		WHERE title ILIKE $1 AND release_date >= $2
		ORDER BY release_date, title
	`

	pattern := "%" + likeEscaper.Replace(title) + "%"
	rows, err := r.db.Query(ctx, query, pattern, after)
	if err != nil {
		r.log.Error("Failed to list movies by title",
			zap.Error(err),
			zap.String("title", title),
			zap.Time("released_after", after),
		)
		return nil, fmt.Errorf("list movies titled %q released after %s: %w", title, after.Format(time.DateOnly), err)
	}

	movies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Movie, error) {
		var m entity.Movie
		err := row.Scan(&m.ID, &m.Title, &m.DurationSeconds, &m.Language, &m.ReleaseDate, &m.CreatedAt)
		return &m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan movies by title: %w", err)
	}

	return movies, nil
}

func (r *reportRepository) BookingsForUser(ctx context.Context, userID int64, limit, offset int) ([]entity.BookingListing, error) {
	query := `
		SELECT b.id, b.order_ref, b.user_id, b.show_id, b.seat_count, b.status, b.created_at, b.updated_at,
		       m.title, t.name, s.starts_at, s.ends_at,
		       COALESCE((
		           SELECT array_agg(st.label ORDER BY st.label COLLATE "C")
		           FROM show_seats ss
		           JOIN seat_templates st ON st.id = ss.seat_template_id
		           WHERE ss.booking_id = b.id
		       ), '{}') AS seat_labels
		FROM bookings b
		JOIN shows s ON s.id = b.show_id
		JOIN movies m ON m.id = s.movie_id
		JOIN theaters t ON t.id = s.theater_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings for user",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings for user %d: %w", userID, err)
	}
	defer rows.Close()

	listings := []entity.BookingListing{}
	for rows.Next() {
		var l entity.BookingListing
		err := rows.Scan(
			&l.ID,
			&l.OrderRef,
			&l.UserID,
			&l.ShowID,
			&l.SeatCount,
			&l.Status,
			&l.CreatedAt,
			&l.UpdatedAt,
			&l.MovieTitle,
			&l.TheaterName,
			&l.StartsAt,
			&l.EndsAt,
			&l.SeatLabels,
		)
		if err != nil {
			r.log.Error("Failed to scan booking listing row", zap.Error(err))
			return nil, fmt.Errorf("scan booking listing row: %w", err)
		}
		l.StartsAt = l.StartsAt.UTC()
		l.EndsAt = l.EndsAt.UTC()
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

func (r *reportRepository) CountBookingsForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings for user", zap.Error(err), zap.Int64("user_id", userID))
		return 0, fmt.Errorf("count bookings for user %d: %w", userID, err)
	}

	return count, nil
}
