package worker

import (
	"context"
	"time"

	"cinema-ticketing/internal/usecase"

	"go.uber.org/zap"
)

// Bookings is the part of the booking service the sweeper drives.
type Bookings interface {
	CancelPendingOlderThan(ctx context.Context, age time.Duration) (*usecase.BatchResult, error)
	ClearCancelledBookings(ctx context.Context) (*usecase.BatchResult, error)
}

// Sweeper periodically expires stale pending bookings and purges cancelled
// ones.
type Sweeper struct {
	bookings     Bookings
	interval     time.Duration
	pendingAfter time.Duration
	log          *zap.Logger
}

// NewSweeper returns a sweeper ticking every interval. A zero pendingAfter
// disables expiry of pending bookings.
func NewSweeper(bookings Bookings, interval, pendingAfter time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		bookings:     bookings,
		interval:     interval,
		pendingAfter: pendingAfter,
		log:          log.With(zap.String("worker", "sweeper")),
	}
}

// Start blocks until ctx is done. It returns at once when interval is not
// positive.
func (w *Sweeper) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info("Sweeper disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("Sweeper started",
		zap.Duration("interval", w.interval),
		zap.Duration("pending_after", w.pendingAfter),
	)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Sweeper stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs one sweep. Failures are logged and retried next tick.
func (w *Sweeper) RunOnce(ctx context.Context) {
	if w.pendingAfter > 0 {
		result, err := w.bookings.CancelPendingOlderThan(ctx, w.pendingAfter)
		w.report("Expired pending bookings", result, err)
	}

	if ctx.Err() != nil {
		return
	}

	result, err := w.bookings.ClearCancelledBookings(ctx)
	w.report("Purged cancelled bookings", result, err)
}

func (w *Sweeper) report(msg string, result *usecase.BatchResult, err error) {
	if result == nil {
		w.log.Error(msg+" failed", zap.Error(err))
		return
	}
	if err != nil {
		w.log.Warn(msg,
			zap.Int("succeeded", len(result.Succeeded)),
			zap.Int("failed", len(result.Failed)),
			zap.Error(err),
		)
		return
	}
	if len(result.Succeeded) > 0 {
		w.log.Info(msg, zap.Int("succeeded", len(result.Succeeded)))
	}
}
