package repository

import (
	"context"
	"errors"
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TheaterRepository interface {
	Create(ctx context.Context, theater *entity.Theater) error
	FindByID(ctx context.Context, id int64) (*entity.Theater, error)
	// FindByCinemaID returns theaters in ascending id order.
	FindByCinemaID(ctx context.Context, cinemaID int64) ([]*entity.Theater, error)
}

type theaterRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTheaterRepository(db database.Querier, log *zap.Logger) TheaterRepository {
	return &theaterRepository{
		db:  db,
		log: log.With(zap.String("repository", "theater")),
	}
}

func (r *theaterRepository) Create(ctx context.Context, theater *entity.Theater) error {
	query := `
		INSERT INTO theaters (cinema_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, theater.CinemaID, theater.Name).Scan(&theater.ID, &theater.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create theater",
			zap.Error(err),
			zap.Int64("cinema_id", theater.CinemaID),
			zap.String("name", theater.Name),
		)
		return fmt.Errorf("create theater %s: %w", theater.Name, err)
	}

	return nil
}

func (r *theaterRepository) FindByID(ctx context.Context, id int64) (*entity.Theater, error) {
	query := `SELECT id, cinema_id, name, created_at FROM theaters WHERE id = $1`

	var theater entity.Theater
	err := r.db.QueryRow(ctx, query, id).Scan(&theater.ID, &theater.CinemaID, &theater.Name, &theater.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theater by ID", zap.Error(err), zap.Int64("theater_id", id))
		return nil, fmt.Errorf("find theater by ID %d: %w", id, err)
	}

	return &theater, nil
}

func (r *theaterRepository) FindByCinemaID(ctx context.Context, cinemaID int64) ([]*entity.Theater, error) {
	query := `
		SELECT id, cinema_id, name, created_at
		FROM theaters
		WHERE cinema_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, cinemaID)
	if err != nil {
		r.log.Error("Failed to find theaters by cinema ID", zap.Error(err), zap.Int64("cinema_id", cinemaID))
		return nil, fmt.Errorf("find theaters by cinema ID %d: %w", cinemaID, err)
	}
	defer rows.Close()

	var theaters []*entity.Theater
	for rows.Next() {
		var theater entity.Theater
		if err := rows.Scan(&theater.ID, &theater.CinemaID, &theater.Name, &theater.CreatedAt); err != nil {
			r.log.Error("Failed to scan theater row", zap.Error(err))
			return nil, fmt.Errorf("scan theater row: %w", err)
		}
		theaters = append(theaters, &theater)
	}

	return theaters, rows.Err()
}
