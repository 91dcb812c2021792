package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowRepository interface {
	Create(ctx context.Context, show *entity.Show) error
	FindByID(ctx context.Context, id int64) (*entity.Show, error)
	// LockByID reads the show and holds its row lock until the transaction ends.
	// Every seat mutation of a show is serialized through this lock.
	LockByID(ctx context.Context, id int64) (*entity.Show, error)
	// LockSchedule serializes schedule changes for one theater and date.
	LockSchedule(ctx context.Context, theaterID int64, date time.Time) error
	FindByTheaterAndDate(ctx context.Context, theaterID int64, date time.Time) ([]*entity.Show, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

type showRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewShowRepository(db database.Querier, log *zap.Logger) ShowRepository {
	return &showRepository{
		db:  db,
		log: log.With(zap.String("repository", "show")),
	}
}

const showColumns = `id, movie_id, theater_id, show_date, starts_at, ends_at, created_at`

func scanShow(row pgx.Row, show *entity.Show) error {
	err := row.Scan(
		&show.ID,
		&show.MovieID,
		&show.TheaterID,
		&show.ShowDate,
		&show.StartsAt,
		&show.EndsAt,
		&show.CreatedAt,
	)
	if err != nil {
		return err
	}
	show.ShowDate = entity.DateOf(show.ShowDate)
	show.StartsAt = show.StartsAt.UTC()
	show.EndsAt = show.EndsAt.UTC()
	return nil
}

func (r *showRepository) Create(ctx context.Context, show *entity.Show) error {
	query := `
		INSERT INTO shows (movie_id, theater_id, show_date, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		show.MovieID,
		show.TheaterID,
		show.ShowDate,
		show.StartsAt,
		show.EndsAt,
	).Scan(&show.ID, &show.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create show",
			zap.Error(err),
			zap.Int64("theater_id", show.TheaterID),
			zap.Int64("movie_id", show.MovieID),
			zap.Time("starts_at", show.StartsAt),
		)
		return fmt.Errorf("create show in theater %d: %w", show.TheaterID, err)
	}

	return nil
}

func (r *showRepository) FindByID(ctx context.Context, id int64) (*entity.Show, error) {
	return r.findOne(ctx, `SELECT `+showColumns+` FROM shows WHERE id = $1`, id)
}

func (r *showRepository) LockByID(ctx context.Context, id int64) (*entity.Show, error) {
	// NO KEY UPDATE still lets bookings insert rows that reference the show.
	return r.findOne(ctx, `SELECT `+showColumns+` FROM shows WHERE id = $1 FOR NO KEY UPDATE`, id)
}

func (r *showRepository) findOne(ctx context.Context, query string, id int64) (*entity.Show, error) {
	var show entity.Show
	err := scanShow(r.db.QueryRow(ctx, query, id), &show)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find show by ID", zap.Error(err), zap.Int64("show_id", id))
		return nil, fmt.Errorf("find show by ID %d: %w", id, err)
	}

	return &show, nil
}

func (r *showRepository) LockSchedule(ctx context.Context, theaterID int64, date time.Time) error {
	key := fmt.Sprintf("show-schedule:%d:%s", theaterID, date.Format("2006-01-02"))

	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		r.log.Error("Failed to lock schedule", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("lock schedule %s: %w", key, err)
	}

	return nil
}

func (r *showRepository) FindByTheaterAndDate(ctx context.Context, theaterID int64, date time.Time) ([]*entity.Show, error) {
	query := `
		SELECT ` + showColumns + `
		FROM shows
		WHERE theater_id = $1 AND show_date = $2
		ORDER BY starts_at, id
	`

	rows, err := r.db.Query(ctx, query, theaterID, date)
	if err != nil {
		r.log.Error("Failed to find shows by theater and date",
			zap.Error(err),
			zap.Int64("theater_id", theaterID),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find shows for theater %d on %s: %w", theaterID, date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var shows []*entity.Show
	for rows.Next() {
		var show entity.Show
		if err := scanShow(rows, &show); err != nil {
			r.log.Error("Failed to scan show row", zap.Error(err))
			return nil, fmt.Errorf("scan show row: %w", err)
		}
		shows = append(shows, &show)
	}

	return shows, rows.Err()
}

func (r *showRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.Exec(ctx, `DELETE FROM shows WHERE id = ANY($1)`, ids)
	if err != nil {
		r.log.Error("Failed to delete shows", zap.Error(err), zap.Int64s("show_ids", ids))
		return 0, fmt.Errorf("delete shows %v: %w", ids, err)
	}

	r.log.Info("Shows deleted", zap.Int64s("show_ids", ids), zap.Int64("count", result.RowsAffected()))
	return result.RowsAffected(), nil
}
