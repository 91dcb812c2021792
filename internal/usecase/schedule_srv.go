package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"cinema-ticketing/internal/cache"
	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/event"

	"go.uber.org/zap"
)

type ScheduleService interface {
	ScheduleShow(ctx context.Context, in ScheduleShowInput) (*entity.Show, error)
	// RemoveShowsOnDate deletes every show of the cinema on date. Shows with
	// reserved seats are refused unless cascade is set, in which case their
	// bookings are cancelled and released first.
	RemoveShowsOnDate(ctx context.Context, cinemaID int64, date time.Time, cascade bool) (*RemoveShowsResult, error)
}

type ScheduleShowInput struct {
	TheaterID int64
	MovieID   int64
	// Date is the calendar date; its time of day is ignored.
	Date time.Time
	// Start is the offset from midnight of Date.
	Start time.Duration
	// DurationSeconds overrides the movie's duration when positive.
	DurationSeconds int64
}

type RemoveShowsResult struct {
	ShowIDs             []int64
	CancelledBookingIDs []int64
	DeletedBookings     int64
	DeletedSeats        int64
}

const secondsPerDay = 24 * 60 * 60

type scheduleService struct {
	repo      *repository.Repository
	inventory InventoryService
	cache     cache.SeatCache
	publisher event.Publisher
	log       *zap.Logger
}

func NewScheduleService(repo *repository.Repository, inventory InventoryService, seats cache.SeatCache, publisher event.Publisher, log *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:      repo,
		inventory: inventory,
		cache:     seats,
		publisher: publisher,
		log:       log.With(zap.String("service", "schedule")),
	}
}

func (s *scheduleService) ScheduleShow(ctx context.Context, in ScheduleShowInput) (*entity.Show, error) {
	if in.TheaterID <= 0 || in.MovieID <= 0 {
		return nil, validationError("theater and movie ids must be positive")
	}
	if in.Date.IsZero() {
		return nil, validationError("show date is required")
	}
	if in.Start < 0 || in.Start >= 24*time.Hour {
		return nil, validationError("start %s is outside the day", in.Start)
	}
	if in.DurationSeconds < 0 || in.DurationSeconds > secondsPerDay {
		return nil, validationError("duration %ds is out of range", in.DurationSeconds)
	}

	date := entity.DateOf(in.Date)
	start := date.Add(in.Start)

	var show *entity.Show
	var seatCount int
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		theater, err := tx.Theater.FindByID(ctx, in.TheaterID)
		if err != nil {
			return err
		}
		if theater == nil {
			return notFound("theater", in.TheaterID)
		}

		movie, err := tx.Movie.FindByID(ctx, in.MovieID)
		if err != nil {
			return err
		}
		if movie == nil {
			return notFound("movie", in.MovieID)
		}

		duration := in.DurationSeconds
		if duration == 0 {
			duration = movie.DurationSeconds
		}
		if duration <= 0 {
			return validationError("movie %d has no duration", movie.ID)
		}

		end := start.Add(time.Duration(duration) * time.Second)
		if end.After(date.AddDate(0, 0, 1)) {
			return validationError("show would end at %s, after the end of %s",
				end.Format(time.RFC3339), date.Format(time.DateOnly))
		}

		if err := tx.Show.LockSchedule(ctx, theater.ID, date); err != nil {
			return err
		}

		existing, err := tx.Show.FindByTheaterAndDate(ctx, theater.ID, date)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if other.Overlaps(start, end) {
				return &ConflictError{ShowID: other.ID}
			}
		}

		created := &entity.Show{
			MovieID:   movie.ID,
			TheaterID: theater.ID,
			ShowDate:  date,
			StartsAt:  start,
			EndsAt:    end,
		}
		if err := tx.Show.Create(ctx, created); err != nil {
			return err
		}

		templates, err := tx.SeatTemplate.FindByTheaterID(ctx, theater.ID)
		if err != nil {
			return err
		}

		seats := make([]*entity.ShowSeat, len(templates))
		for i, tpl := range templates {
			seats[i] = &entity.ShowSeat{
				ShowID:         created.ID,
				SeatTemplateID: tpl.ID,
				Label:          tpl.Label,
				PriceCents:     tpl.PriceCents,
			}
		}
		if err := tx.ShowSeat.CreateBatch(ctx, seats); err != nil {
			return err
		}

		show = created
		seatCount = len(seats)
		return nil
	})
	if err != nil {
		logFailure(s.log, "Failed to schedule show", err,
			zap.Int64("theater_id", in.TheaterID),
			zap.Int64("movie_id", in.MovieID),
			zap.Time("starts_at", start),
		)
		return nil, fmt.Errorf("schedule show in theater %d: %w", in.TheaterID, err)
	}

	s.log.Info("Show scheduled",
		zap.Int64("show_id", show.ID),
		zap.Int64("theater_id", show.TheaterID),
		zap.Time("starts_at", show.StartsAt),
		zap.Time("ends_at", show.EndsAt),
		zap.Int("seats", seatCount),
	)

	publish(ctx, s.publisher, s.log, event.Event{
		Type:   event.ShowScheduled,
		ShowID: show.ID,
	})

	return show, nil
}

func (s *scheduleService) RemoveShowsOnDate(ctx context.Context, cinemaID int64, date time.Time, cascade bool) (*RemoveShowsResult, error) {
	if cinemaID <= 0 {
		return nil, validationError("cinema id must be positive, got %d", cinemaID)
	}
	if date.IsZero() {
		return nil, validationError("date is required")
	}
	day := entity.DateOf(date)

	var result *RemoveShowsResult
	var cancelled []*entity.Booking
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		result = &RemoveShowsResult{ShowIDs: []int64{}, CancelledBookingIDs: []int64{}}
		cancelled = nil

		cinema, err := tx.Cinema.FindByID(ctx, cinemaID)
		if err != nil {
			return err
		}
		if cinema == nil {
			return notFound("cinema", cinemaID)
		}

		theaters, err := tx.Theater.FindByCinemaID(ctx, cinemaID)
		if err != nil {
			return err
		}

		for _, theater := range theaters {
			if err := tx.Show.LockSchedule(ctx, theater.ID, day); err != nil {
				return err
			}
			shows, err := tx.Show.FindByTheaterAndDate(ctx, theater.ID, day)
			if err != nil {
				return err
			}
			for _, show := range shows {
				result.ShowIDs = append(result.ShowIDs, show.ID)
			}
		}
		if len(result.ShowIDs) == 0 {
			return nil
		}

		slices.Sort(result.ShowIDs)
		for _, id := range result.ShowIDs {
			if _, err := tx.Show.LockByID(ctx, id); err != nil {
				return err
			}
		}

		reserved, err := tx.ShowSeat.CountReservedByShowIDs(ctx, result.ShowIDs)
		if err != nil {
			return err
		}
		if reserved > 0 && !cascade {
			return fmt.Errorf("%w: %d seats are still reserved on shows %v",
				ErrIntegrity, reserved, result.ShowIDs)
		}

		if cascade {
			active, err := tx.Booking.FindActiveByShowIDs(ctx, result.ShowIDs)
			if err != nil {
				return err
			}
			for _, b := range active {
				locked, err := tx.Booking.LockByID(ctx, b.ID)
				if err != nil {
					return err
				}
				if locked == nil || !locked.Status.Active() {
					continue
				}
				if _, err := cancelLocked(ctx, tx, s.inventory, locked); err != nil {
					return err
				}
				result.CancelledBookingIDs = append(result.CancelledBookingIDs, locked.ID)
				cancelled = append(cancelled, locked)
			}
		}

		if result.DeletedBookings, err = tx.Booking.DeleteCancelledByShowIDs(ctx, result.ShowIDs); err != nil {
			return err
		}
		if result.DeletedSeats, err = tx.ShowSeat.DeleteByShowIDs(ctx, result.ShowIDs); err != nil {
			return err
		}
		_, err = tx.Show.DeleteByIDs(ctx, result.ShowIDs)
		return err
	})
	if err != nil {
		logFailure(s.log, "Failed to remove shows", err,
			zap.Int64("cinema_id", cinemaID),
			zap.String("date", day.Format(time.DateOnly)),
			zap.Bool("cascade", cascade),
		)
		return nil, fmt.Errorf("remove shows of cinema %d on %s: %w", cinemaID, day.Format(time.DateOnly), err)
	}

	if len(result.ShowIDs) == 0 {
		return result, nil
	}

	s.cache.Invalidate(ctx, result.ShowIDs...)

	s.log.Info("Shows removed",
		zap.Int64("cinema_id", cinemaID),
		zap.String("date", day.Format(time.DateOnly)),
		zap.Int64s("show_ids", result.ShowIDs),
		zap.Int("cancelled_bookings", len(result.CancelledBookingIDs)),
		zap.Int64("deleted_bookings", result.DeletedBookings),
	)

	for _, b := range cancelled {
		publish(ctx, s.publisher, s.log, event.Event{
			Type:      event.BookingCancelled,
			BookingID: b.ID,
			ShowID:    b.ShowID,
			UserID:    b.UserID,
			Status:    entity.BookingStatusCancelled.String(),
			Detail:    "show removed",
		})
	}
	publish(ctx, s.publisher, s.log, event.Event{
		Type:    event.ShowsRemoved,
		ShowIDs: result.ShowIDs,
		Detail:  day.Format(time.DateOnly),
	})

	return result, nil
}
