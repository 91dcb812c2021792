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

type CinemaRepository interface {
	Create(ctx context.Context, cinema *entity.Cinema) error
	FindByID(ctx context.Context, id int64) (*entity.Cinema, error)
}

type cinemaRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCinemaRepository(db database.Querier, log *zap.Logger) CinemaRepository {
	return &cinemaRepository{
		db:  db,
		log: log.With(zap.String("repository", "cinema")),
	}
}

func (r *cinemaRepository) Create(ctx context.Context, cinema *entity.Cinema) error {
	query := `
		INSERT INTO cinemas (name, city)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, cinema.Name, cinema.City).Scan(&cinema.ID, &cinema.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create cinema", zap.Error(err), zap.String("name", cinema.Name))
		return fmt.Errorf("create cinema %s: %w", cinema.Name, err)
	}

	return nil
}

func (r *cinemaRepository) FindByID(ctx context.Context, id int64) (*entity.Cinema, error) {
	query := `SELECT id, name, city, created_at FROM cinemas WHERE id = $1`

	var cinema entity.Cinema
	err := r.db.QueryRow(ctx, query, id).Scan(&cinema.ID, &cinema.Name, &cinema.City, &cinema.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cinema by ID", zap.Error(err), zap.Int64("cinema_id", id))
		return nil, fmt.Errorf("find cinema by ID %d: %w", id, err)
	}

	return &cinema, nil
}
