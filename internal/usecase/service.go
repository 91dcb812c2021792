package usecase

import (
	"context"
	"time"

	"cinema-ticketing/internal/cache"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/event"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Movie     MovieService
	Schedule  ScheduleService
	Inventory InventoryService
	Booking   BookingService
	Report    ReportService
}

func NewService(repo *repository.Repository, seats cache.SeatCache, publisher event.Publisher, config *utils.Config, log *zap.Logger) *Service {
	inventory := NewInventoryService(repo, seats, publisher, log)

	return &Service{
		Movie:     NewMovieService(repo, log),
		Schedule:  NewScheduleService(repo, inventory, seats, publisher, log),
		Inventory: inventory,
		Booking:   NewBookingService(repo, inventory, seats, publisher, config.Sweep.Concurrency, log),
		Report:    NewReportService(repo, log),
	}
}

const publishTimeout = 5 * time.Second

// publish sends e after the owning transaction committed. The state change
// already happened, so a failure is only logged.
func publish(ctx context.Context, p event.Publisher, log *zap.Logger, e event.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, e); err != nil {
		log.Warn("Failed to publish event",
			zap.String("type", string(e.Type)),
			zap.Int64("booking_id", e.BookingID),
			zap.Int64("show_id", e.ShowID),
			zap.Error(err),
		)
	}
}

// logFailure logs caller-caused errors at Warn and everything else at Error.
func logFailure(log *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if isExpected(err) {
		log.Warn(msg, fields...)
		return
	}
	log.Error(msg, fields...)
}
