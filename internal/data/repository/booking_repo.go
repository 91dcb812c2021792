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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id int64) (*entity.Booking, error)
	// LockByID reads the booking and holds its row lock until the transaction ends.
	LockByID(ctx context.Context, id int64) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error
	Delete(ctx context.Context, id int64) error

	// Business queries
	// FindIDsByStatus lists ids in ascending order. A zero createdBefore disables the age filter.
	FindIDsByStatus(ctx context.Context, status entity.BookingStatus, createdBefore time.Time) ([]int64, error)
	FindActiveByShowIDs(ctx context.Context, showIDs []int64) ([]*entity.Booking, error)
	DeleteCancelledByShowIDs(ctx context.Context, showIDs []int64) (int64, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, order_ref, user_id, show_id, seat_count, status, created_at, updated_at`

func scanBooking(row pgx.Row, booking *entity.Booking) error {
	return row.Scan(
		&booking.ID,
		&booking.OrderRef,
		&booking.UserID,
		&booking.ShowID,
		&booking.SeatCount,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (order_ref, user_id, show_id, seat_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		booking.OrderRef,
		booking.UserID,
		booking.ShowID,
		booking.SeatCount,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&booking.ID)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_ref", booking.OrderRef),
			zap.Int64("user_id", booking.UserID),
			zap.Int64("show_id", booking.ShowID),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderRef, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *bookingRepository) LockByID(ctx context.Context, id int64) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *bookingRepository) findOne(ctx context.Context, query string, id int64) (*entity.Booking, error) {
	var booking entity.Booking
	err := scanBooking(r.db.QueryRow(ctx, query, id), &booking)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID", zap.Error(err), zap.Int64("booking_id", id))
		return nil, fmt.Errorf("find booking by ID %d: %w", id, err)
	}

	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.Int64("booking_id", id),
			zap.Stringer("status", status),
		)
		return fmt.Errorf("update booking %d status to %s: %w", id, status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %d status: %w", id, ErrNoRows)
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete booking", zap.Error(err), zap.Int64("booking_id", id))
		return fmt.Errorf("delete booking %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete booking %d: %w", id, ErrNoRows)
	}

	r.log.Info("Booking deleted", zap.Int64("booking_id", id))
	return nil
}

func (r *bookingRepository) FindIDsByStatus(ctx context.Context, status entity.BookingStatus, createdBefore time.Time) ([]int64, error) {
	query := `
		SELECT id
		FROM bookings
		WHERE status = $1 AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY id
	`

	var before *time.Time
	if !createdBefore.IsZero() {
		before = &createdBefore
	}

	rows, err := r.db.Query(ctx, query, status, before)
	if err != nil {
		r.log.Error("Failed to find bookings by status", zap.Error(err), zap.Stringer("status", status))
		return nil, fmt.Errorf("find %s bookings: %w", status, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan %s booking ids: %w", status, err)
	}

	return ids, nil
}

func (r *bookingRepository) FindActiveByShowIDs(ctx context.Context, showIDs []int64) ([]*entity.Booking, error) {
	if len(showIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE show_id = ANY($1) AND status IN ('Pending', 'Paid')
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, showIDs)
	if err != nil {
		r.log.Error("Failed to find active bookings by show IDs", zap.Error(err), zap.Int64s("show_ids", showIDs))
		return nil, fmt.Errorf("find active bookings of shows %v: %w", showIDs, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		if err := scanBooking(rows, &booking); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) DeleteCancelledByShowIDs(ctx context.Context, showIDs []int64) (int64, error) {
	if len(showIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM bookings WHERE show_id = ANY($1) AND status = 'Cancelled'`

	result, err := r.db.Exec(ctx, query, showIDs)
	if err != nil {
		r.log.Error("Failed to delete cancelled bookings", zap.Error(err), zap.Int64s("show_ids", showIDs))
		return 0, fmt.Errorf("delete cancelled bookings of shows %v: %w", showIDs, err)
	}

	return result.RowsAffected(), nil
}
