package usecase

import (
	"context"
	"fmt"
	"strings"

	"cinema-ticketing/internal/cache"
	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/event"

	"go.uber.org/zap"
)

// InventoryService manages the seat pool of each show.
//
// Reserve and Release accept the caller's transaction so they can be part of
// a larger unit of work. With a nil tx they run in their own transaction.
type InventoryService interface {
	ListAvailable(ctx context.Context, showID int64) ([]entity.ShowSeat, error)
	Reserve(ctx context.Context, tx *repository.Repository, showID, bookingID int64, count int) ([]entity.ShowSeat, error)
	Release(ctx context.Context, tx *repository.Repository, bookingID int64) (int64, error)
	Swap(ctx context.Context, bookingID int64, fromLabel, toLabel string) ([]entity.ShowSeat, error)
}

type inventoryService struct {
	repo      *repository.Repository
	cache     cache.SeatCache
	publisher event.Publisher
	log       *zap.Logger
}

func NewInventoryService(repo *repository.Repository, seats cache.SeatCache, publisher event.Publisher, log *zap.Logger) InventoryService {
	return &inventoryService{
		repo:      repo,
		cache:     seats,
		publisher: publisher,
		log:       log.With(zap.String("service", "inventory")),
	}
}

// within nests fn in tx as a savepoint, or opens a new transaction.
func (s *inventoryService) within(ctx context.Context, tx *repository.Repository, fn repository.TxFunc) error {
	if tx != nil {
		return tx.WithinTx(ctx, fn)
	}
	return s.repo.WithinTx(ctx, fn)
}

func (s *inventoryService) ListAvailable(ctx context.Context, showID int64) ([]entity.ShowSeat, error) {
	if showID <= 0 {
		return nil, validationError("show id must be positive, got %d", showID)
	}

	if seats, ok := s.cache.Get(ctx, showID); ok {
		return seats, nil
	}
	// taken before the read so a commit landing after it voids our Set
	version, cacheable := s.cache.Version(ctx, showID)

	show, err := s.repo.Show.FindByID(ctx, showID)
	if err != nil {
		s.log.Error("Failed to find show", zap.Int64("show_id", showID), zap.Error(err))
		return nil, fmt.Errorf("find show %d: %w", showID, err)
	}
	if show == nil {
		return nil, notFound("show", showID)
	}

	seats, err := s.repo.ShowSeat.FindAvailable(ctx, showID, 0)
	if err != nil {
		s.log.Error("Failed to list available seats", zap.Int64("show_id", showID), zap.Error(err))
		return nil, fmt.Errorf("list available seats of show %d: %w", showID, err)
	}

	if cacheable {
		s.cache.Set(ctx, showID, version, seats)
	}
	return seats, nil
}

// Reserve claims the count lowest-label free seats of the show for the
// booking. Either all count seats are claimed or none is. The booking must
// hold no seats yet and count must equal its seat count.
func (s *inventoryService) Reserve(ctx context.Context, tx *repository.Repository, showID, bookingID int64, count int) ([]entity.ShowSeat, error) {
	if count < 1 {
		return nil, validationError("seat count must be at least 1, got %d", count)
	}

	var seats []entity.ShowSeat
	err := s.within(ctx, tx, func(ctx context.Context, tx *repository.Repository) error {
		show, err := tx.Show.LockByID(ctx, showID)
		if err != nil {
			return err
		}
		if show == nil {
			return notFound("show", showID)
		}

		booking, err := tx.Booking.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return notFound("booking", bookingID)
		}
		if booking.ShowID != showID {
			return validationError("booking %d belongs to show %d, not %d", bookingID, booking.ShowID, showID)
		}
		if !booking.Status.Active() {
			return validationError("booking %d is %s", bookingID, booking.Status)
		}

		held, err := tx.ShowSeat.CountByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		if held > 0 {
			return fmt.Errorf("%w: booking %d already holds %d seats", ErrIntegrity, bookingID, held)
		}
		if count != booking.SeatCount {
			return validationError("booking %d is for %d seats, not %d", bookingID, booking.SeatCount, count)
		}

		free, err := tx.ShowSeat.FindAvailable(ctx, showID, count)
		if err != nil {
			return err
		}
		if len(free) < count {
			return &InsufficientSeatsError{ShowID: showID, Requested: count, Available: len(free)}
		}

		ids := make([]int64, len(free))
		for i := range free {
			ids[i] = free[i].ID
		}

		claimed, err := tx.ShowSeat.Claim(ctx, bookingID, ids)
		if err != nil {
			return err
		}
		if claimed != int64(count) {
			// only possible when a writer bypassed the show lock
			return fmt.Errorf("%w: claimed %d of %d seats of show %d", ErrSeatUnavailable, claimed, count, showID)
		}

		for i := range free {
			free[i].BookingID = &bookingID
		}
		seats = free
		return nil
	})
	if err != nil {
		logFailure(s.log, "Failed to reserve seats", err,
			zap.Int64("show_id", showID),
			zap.Int64("booking_id", bookingID),
			zap.Int("count", count),
		)
		return nil, fmt.Errorf("reserve %d seats of show %d: %w", count, showID, err)
	}

	if tx == nil {
		s.cache.Invalidate(ctx, showID)
	}

	s.log.Debug("Seats reserved",
		zap.Int64("show_id", showID),
		zap.Int64("booking_id", bookingID),
		zap.Strings("labels", entity.Labels(seats)),
	)
	return seats, nil
}

// Release frees every seat held by the booking and returns how many it freed.
// Releasing a booking that holds nothing is a no-op.
func (s *inventoryService) Release(ctx context.Context, tx *repository.Repository, bookingID int64) (int64, error) {
	var (
		released int64
		showID   int64
	)
	err := s.within(ctx, tx, func(ctx context.Context, tx *repository.Repository) error {
		booking, err := tx.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return nil
		}
		showID = booking.ShowID

		if _, err := tx.Show.LockByID(ctx, booking.ShowID); err != nil {
			return err
		}
		if _, err := tx.Booking.LockByID(ctx, bookingID); err != nil {
			return err
		}

		released, err = tx.ShowSeat.ReleaseByBookingID(ctx, bookingID)
		return err
	})
	if err != nil {
		s.log.Error("Failed to release seats", zap.Int64("booking_id", bookingID), zap.Error(err))
		return 0, fmt.Errorf("release seats of booking %d: %w", bookingID, err)
	}

	if tx == nil && released > 0 {
		s.cache.Invalidate(ctx, showID)
	}
	return released, nil
}

// Swap moves the booking from one seat to another of the same show and
// price. The booking never holds both seats or neither.
func (s *inventoryService) Swap(ctx context.Context, bookingID int64, fromLabel, toLabel string) ([]entity.ShowSeat, error) {
	fromLabel = strings.TrimSpace(fromLabel)
	toLabel = strings.TrimSpace(toLabel)
	if bookingID <= 0 {
		return nil, validationError("booking id must be positive, got %d", bookingID)
	}
	if fromLabel == "" || toLabel == "" {
		return nil, validationError("both seat labels are required")
	}

	var (
		seats  []entity.ShowSeat
		showID int64
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		booking, err := tx.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return notFound("booking", bookingID)
		}
		showID = booking.ShowID

		if _, err := tx.Show.LockByID(ctx, showID); err != nil {
			return err
		}
		if booking, err = tx.Booking.LockByID(ctx, bookingID); err != nil {
			return err
		}
		if booking == nil {
			return notFound("booking", bookingID)
		}

		from, err := tx.ShowSeat.FindByShowAndLabel(ctx, showID, fromLabel)
		if err != nil {
			return err
		}
		if from == nil || !from.OwnedBy(bookingID) {
			return fmt.Errorf("%w: booking %d does not hold seat %s", ErrSeatNotOwned, bookingID, fromLabel)
		}

		to, err := tx.ShowSeat.FindByShowAndLabel(ctx, showID, toLabel)
		if err != nil {
			return err
		}
		if to == nil {
			return fmt.Errorf("%w: show %d has no seat %s", ErrSeatNotFound, showID, toLabel)
		}
		if !to.Available() {
			return fmt.Errorf("%w: seat %s of show %d is taken", ErrSeatUnavailable, toLabel, showID)
		}
		if from.PriceCents != to.PriceCents {
			return fmt.Errorf("%w: seat %s costs %d, seat %s costs %d",
				ErrPriceMismatch, fromLabel, from.PriceCents, toLabel, to.PriceCents)
		}

		released, err := tx.ShowSeat.ReleaseSeat(ctx, from.ID, bookingID)
		if err != nil {
			return err
		}
		if released != 1 {
			return fmt.Errorf("%w: booking %d lost seat %s", ErrSeatNotOwned, bookingID, fromLabel)
		}

		claimed, err := tx.ShowSeat.Claim(ctx, bookingID, []int64{to.ID})
		if err != nil {
			return err
		}
		if claimed != 1 {
			return fmt.Errorf("%w: seat %s of show %d is taken", ErrSeatUnavailable, toLabel, showID)
		}

		seats, err = tx.ShowSeat.FindByBookingID(ctx, bookingID)
		return err
	})
	if err != nil {
		logFailure(s.log, "Failed to swap seat", err,
			zap.Int64("booking_id", bookingID),
			zap.String("from", fromLabel),
			zap.String("to", toLabel),
		)
		return nil, fmt.Errorf("swap seat %s for %s on booking %d: %w", fromLabel, toLabel, bookingID, err)
	}

	s.cache.Invalidate(ctx, showID)

	s.log.Info("Seat swapped",
		zap.Int64("booking_id", bookingID),
		zap.String("from", fromLabel),
		zap.String("to", toLabel),
	)

	publish(ctx, s.publisher, s.log, event.Event{
		Type:       event.SeatSwapped,
		BookingID:  bookingID,
		ShowID:     showID,
		SeatLabels: entity.Labels(seats),
		Detail:     fromLabel + "->" + toLabel,
	})

	return seats, nil
}
