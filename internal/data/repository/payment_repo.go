package repository

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"go.uber.org/zap"
)

// PaymentRepository fronts the payment collaborator's records. Bookings only
// need to know whether a payment exists and to remove it on cancellation.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ExistsByBookingID(ctx context.Context, bookingID int64) (bool, error)
	// DeleteByBookingID returns ErrNoRows when no payment exists.
	DeleteByBookingID(ctx context.Context, bookingID int64) error
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (booking_id, amount_cents, method)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		payment.BookingID,
		payment.AmountCents,
		payment.Method,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create payment", zap.Error(err), zap.Int64("booking_id", payment.BookingID))
		return fmt.Errorf("create payment for booking %d: %w", payment.BookingID, err)
	}

	return nil
}

func (r *paymentRepository) ExistsByBookingID(ctx context.Context, bookingID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE booking_id = $1)`, bookingID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check payment", zap.Error(err), zap.Int64("booking_id", bookingID))
		return false, fmt.Errorf("check payment of booking %d: %w", bookingID, err)
	}

	return exists, nil
}

func (r *paymentRepository) DeleteByBookingID(ctx context.Context, bookingID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM payments WHERE booking_id = $1`, bookingID)
	if err != nil {
		r.log.Error("Failed to delete payment", zap.Error(err), zap.Int64("booking_id", bookingID))
		return fmt.Errorf("delete payment of booking %d: %w", bookingID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete payment of booking %d: %w", bookingID, ErrNoRows)
	}

	r.log.Info("Payment deleted", zap.Int64("booking_id", bookingID))
	return nil
}
