package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-ticketing/internal/cache"
	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/event"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*entity.Booking, []entity.ShowSeat, error)
	GetBooking(ctx context.Context, bookingID int64) (*entity.Booking, []entity.ShowSeat, error)
	// CancelBooking is idempotent: cancelling a cancelled booking succeeds.
	CancelBooking(ctx context.Context, bookingID int64) error
	RemovePayment(ctx context.Context, bookingID int64) error

	// Bulk operations run one transaction per booking and collect failures.
	CancelAllPending(ctx context.Context) (*BatchResult, error)
	CancelPendingOlderThan(ctx context.Context, age time.Duration) (*BatchResult, error)
	ClearCancelledBookings(ctx context.Context) (*BatchResult, error)
}

type CreateBookingInput struct {
	UserID    int64
	ShowID    int64
	SeatCount int
	Status    entity.BookingStatus
}

type bookingService struct {
	repo        *repository.Repository
	inventory   InventoryService
	cache       cache.SeatCache
	publisher   event.Publisher
	concurrency int
	now         func() time.Time
	log         *zap.Logger
}

func NewBookingService(repo *repository.Repository, inventory InventoryService, seats cache.SeatCache, publisher event.Publisher, concurrency int, log *zap.Logger) BookingService {
	return &bookingService{
		repo:        repo,
		inventory:   inventory,
		cache:       seats,
		publisher:   publisher,
		concurrency: max(concurrency, 1),
		now:         func() time.Time { return time.Now().UTC() },
		log:         log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*entity.Booking, []entity.ShowSeat, error) {
	if in.UserID <= 0 || in.ShowID <= 0 {
		return nil, nil, validationError("user and show ids must be positive")
	}
	if in.SeatCount < 1 {
		return nil, nil, validationError("seat count must be at least 1, got %d", in.SeatCount)
	}
	if !in.Status.Active() {
		return nil, nil, validationError("initial status must be Pending or Paid, got %s", in.Status)
	}

	now := s.now()

	var (
		booking *entity.Booking
		seats   []entity.ShowSeat
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		user, err := tx.User.FindByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound("user", in.UserID)
		}

		show, err := tx.Show.LockByID(ctx, in.ShowID)
		if err != nil {
			return err
		}
		if show == nil {
			return notFound("show", in.ShowID)
		}

		created := &entity.Booking{
			Base:      entity.Base{CreatedAt: now},
			OrderRef:  utils.GenerateOrderRef(now),
			UserID:    user.ID,
			ShowID:    show.ID,
			SeatCount: in.SeatCount,
			Status:    in.Status,
			UpdatedAt: now,
		}
		if err := tx.Booking.Create(ctx, created); err != nil {
			return err
		}

		claimed, err := s.inventory.Reserve(ctx, tx, show.ID, created.ID, in.SeatCount)
		if err != nil {
			return err
		}

		booking, seats = created, claimed
		return nil
	})
	if err != nil {
		logFailure(s.log, "Failed to create booking", err,
			zap.Int64("user_id", in.UserID),
			zap.Int64("show_id", in.ShowID),
			zap.Int("seat_count", in.SeatCount),
		)
		return nil, nil, fmt.Errorf("create booking for show %d: %w", in.ShowID, err)
	}

	s.cache.Invalidate(ctx, booking.ShowID)

	s.log.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.String("order_ref", booking.OrderRef),
		zap.Int64("user_id", booking.UserID),
		zap.Int64("show_id", booking.ShowID),
		zap.Strings("seats", entity.Labels(seats)),
		zap.Stringer("status", booking.Status),
	)

	publish(ctx, s.publisher, s.log, event.Event{
		Type:       event.BookingCreated,
		BookingID:  booking.ID,
		ShowID:     booking.ShowID,
		UserID:     booking.UserID,
		Status:     booking.Status.String(),
		SeatLabels: entity.Labels(seats),
	})

	return booking, seats, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID int64) (*entity.Booking, []entity.ShowSeat, error) {
	if bookingID <= 0 {
		return nil, nil, validationError("booking id must be positive, got %d", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Int64("booking_id", bookingID), zap.Error(err))
		return nil, nil, fmt.Errorf("find booking %d: %w", bookingID, err)
	}
	if booking == nil {
		return nil, nil, notFound("booking", bookingID)
	}

	seats, err := s.repo.ShowSeat.FindByBookingID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking seats", zap.Int64("booking_id", bookingID), zap.Error(err))
		return nil, nil, fmt.Errorf("find seats of booking %d: %w", bookingID, err)
	}

	return booking, seats, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID int64) error {
	if bookingID <= 0 {
		return validationError("booking id must be positive, got %d", bookingID)
	}

	_, err := s.cancel(ctx, bookingID, 0, time.Time{}, "cancelled")
	if err != nil {
		logFailure(s.log, "Failed to cancel booking", err, zap.Int64("booking_id", bookingID))
		return fmt.Errorf("cancel booking %d: %w", bookingID, err)
	}
	return nil
}

// cancel cancels one booking in its own transaction. When only is set the
// booking is skipped unless its locked status equals only; a non-zero
// createdBefore also skips bookings created at or after it. It reports
// whether this call changed the booking.
func (s *bookingService) cancel(ctx context.Context, bookingID int64, only entity.BookingStatus, createdBefore time.Time, reason string) (bool, error) {
	var (
		booking  *entity.Booking
		released int64
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		booking = nil

		current, err := tx.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("booking", bookingID)
		}

		if _, err := tx.Show.LockByID(ctx, current.ShowID); err != nil {
			return err
		}
		locked, err := tx.Booking.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if locked == nil {
			return notFound("booking", bookingID)
		}

		if !locked.Status.Active() {
			return nil
		}
		if only != 0 && locked.Status != only {
			return nil
		}
		if !createdBefore.IsZero() && !locked.CreatedAt.Before(createdBefore) {
			return nil
		}

		if released, err = cancelLocked(ctx, tx, s.inventory, locked); err != nil {
			return err
		}
		booking = locked
		return nil
	})
	if err != nil {
		return false, err
	}
	if booking == nil {
		return false, nil
	}

	s.cache.Invalidate(ctx, booking.ShowID)

	s.log.Info("Booking cancelled",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("show_id", booking.ShowID),
		zap.Int64("released_seats", released),
		zap.String("reason", reason),
	)

	publish(ctx, s.publisher, s.log, event.Event{
		Type:      event.BookingCancelled,
		BookingID: booking.ID,
		ShowID:    booking.ShowID,
		UserID:    booking.UserID,
		Status:    entity.BookingStatusCancelled.String(),
		Detail:    reason,
	})

	return true, nil
}

// cancelLocked marks an active booking cancelled and releases its seats. The
// caller holds the show and booking locks.
func cancelLocked(ctx context.Context, tx *repository.Repository, inventory InventoryService, booking *entity.Booking) (int64, error) {
	if err := tx.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		return 0, err
	}
	released, err := inventory.Release(ctx, tx, booking.ID)
	if err != nil {
		return 0, err
	}
	if released != int64(booking.SeatCount) {
		return 0, fmt.Errorf("%w: booking %d held %d seats, expected %d",
			ErrIntegrity, booking.ID, released, booking.SeatCount)
	}
	booking.Status = entity.BookingStatusCancelled
	return released, nil
}

func (s *bookingService) CancelAllPending(ctx context.Context) (*BatchResult, error) {
	return s.cancelPending(ctx, time.Time{}, "cancel all pending")
}

// CancelPendingOlderThan cancels pending bookings created more than age ago.
func (s *bookingService) CancelPendingOlderThan(ctx context.Context, age time.Duration) (*BatchResult, error) {
	if age <= 0 {
		return nil, validationError("age must be positive, got %s", age)
	}
	return s.cancelPending(ctx, s.now().Add(-age), "pending expired")
}

func (s *bookingService) cancelPending(ctx context.Context, createdBefore time.Time, reason string) (*BatchResult, error) {
	ids, err := s.repo.Booking.FindIDsByStatus(ctx, entity.BookingStatusPending, createdBefore)
	if err != nil {
		s.log.Error("Failed to list pending bookings", zap.Error(err))
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}

	result := runBatch(ctx, ids, s.concurrency, func(ctx context.Context, id int64) (bool, error) {
		done, err := s.cancel(ctx, id, entity.BookingStatusPending, createdBefore, reason)
		if errors.Is(err, ErrNotFound) {
			// purged between listing and locking
			return false, nil
		}
		return done, err
	})

	s.logBatch("Pending bookings cancelled", result)
	return result, result.Err()
}

func (s *bookingService) RemovePayment(ctx context.Context, bookingID int64) error {
	if bookingID <= 0 {
		return validationError("booking id must be positive, got %d", bookingID)
	}

	if _, err := s.cancel(ctx, bookingID, 0, time.Time{}, "payment removed"); err != nil {
		logFailure(s.log, "Failed to cancel booking before payment removal", err, zap.Int64("booking_id", bookingID))
		return fmt.Errorf("remove payment of booking %d: %w", bookingID, err)
	}

	exists, err := s.repo.Payment.ExistsByBookingID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to check payment", zap.Int64("booking_id", bookingID), zap.Error(err))
		return fmt.Errorf("check payment of booking %d: %w", bookingID, err)
	}
	if !exists {
		s.log.Info("No payment on record", zap.Int64("booking_id", bookingID))
		return nil
	}

	if err := s.repo.Payment.DeleteByBookingID(ctx, bookingID); err != nil {
		if !errors.Is(err, repository.ErrNoRows) {
			s.log.Error("Failed to delete payment", zap.Int64("booking_id", bookingID), zap.Error(err))
			return fmt.Errorf("delete payment of booking %d: %w", bookingID, err)
		}
		s.log.Warn("Payment already gone", zap.Int64("booking_id", bookingID))
		return nil
	}

	s.log.Info("Payment removed", zap.Int64("booking_id", bookingID))

	publish(ctx, s.publisher, s.log, event.Event{
		Type:      event.PaymentRemoved,
		BookingID: bookingID,
	})
	return nil
}

// ClearCancelledBookings deletes every cancelled booking. A cancelled booking
// that still holds seats is reported as an integrity failure and kept.
func (s *bookingService) ClearCancelledBookings(ctx context.Context) (*BatchResult, error) {
	ids, err := s.repo.Booking.FindIDsByStatus(ctx, entity.BookingStatusCancelled, time.Time{})
	if err != nil {
		s.log.Error("Failed to list cancelled bookings", zap.Error(err))
		return nil, fmt.Errorf("list cancelled bookings: %w", err)
	}

	result := runBatch(ctx, ids, s.concurrency, func(ctx context.Context, id int64) (bool, error) {
		var purged *entity.Booking
		err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
			purged = nil

			booking, err := tx.Booking.LockByID(ctx, id)
			if err != nil {
				return err
			}
			if booking == nil || booking.Status != entity.BookingStatusCancelled {
				return nil
			}

			held, err := tx.ShowSeat.CountByBookingID(ctx, id)
			if err != nil {
				return err
			}
			if held > 0 {
				return fmt.Errorf("%w: cancelled booking %d still holds %d seats", ErrIntegrity, id, held)
			}

			if err := tx.Booking.Delete(ctx, id); err != nil {
				return err
			}
			purged = booking
			return nil
		})
		if err != nil {
			logFailure(s.log, "Failed to purge booking", err, zap.Int64("booking_id", id))
			return false, err
		}
		if purged == nil {
			return false, nil
		}

		publish(ctx, s.publisher, s.log, event.Event{
			Type:      event.BookingPurged,
			BookingID: purged.ID,
			ShowID:    purged.ShowID,
			UserID:    purged.UserID,
		})
		return true, nil
	})

	s.logBatch("Cancelled bookings cleared", result)
	return result, result.Err()
}

func (s *bookingService) logBatch(msg string, result *BatchResult) {
	fields := []zap.Field{
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failed)),
	}
	if len(result.Failed) > 0 {
		s.log.Warn(msg, append(fields, zap.Error(result.Err()))...)
		return
	}
	s.log.Info(msg, fields...)
}
