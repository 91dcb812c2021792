package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"

	"go.uber.org/zap"
)

// ReportService answers read-only listing queries. It never takes locks.
type ReportService interface {
	// TheatersShowingMovie lists the shows of a movie. cinemaID 0 means all cinemas.
	TheatersShowingMovie(ctx context.Context, movieID, cinemaID int64) ([]entity.ShowListing, error)
	ShowsStartingAt(ctx context.Context, startsAt time.Time) ([]entity.ShowListing, error)
	MovieShowsAtCinema(ctx context.Context, cinemaID, movieID int64, from, to time.Time) ([]entity.ShowListing, error)
	UsersWithPendingBookings(ctx context.Context) ([]*entity.User, error)
	BookingsForUser(ctx context.Context, userID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingListingResponse], error)
	// MoviesByTitleReleasedAfter matches title case-insensitively against
	// movies released on or after the given date.
	MoviesByTitleReleasedAfter(ctx context.Context, title string, after time.Time) ([]*entity.Movie, error)
}

type reportService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReportService(repo *repository.Repository, log *zap.Logger) ReportService {
	return &reportService{
		repo: repo,
		log:  log.With(zap.String("service", "report")),
	}
}

func (s *reportService) TheatersShowingMovie(ctx context.Context, movieID, cinemaID int64) ([]entity.ShowListing, error) {
	if movieID <= 0 || cinemaID < 0 {
		return nil, validationError("invalid movie %d or cinema %d", movieID, cinemaID)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie %d: %w", movieID, err)
	}
	if movie == nil {
		return nil, notFound("movie", movieID)
	}

	listings, err := s.repo.Report.TheatersShowingMovie(ctx, movieID, cinemaID)
	if err != nil {
		s.log.Error("Failed to list theaters showing movie", zap.Int64("movie_id", movieID), zap.Error(err))
		return nil, fmt.Errorf("list theaters showing movie %d: %w", movieID, err)
	}
	return listings, nil
}

func (s *reportService) ShowsStartingAt(ctx context.Context, startsAt time.Time) ([]entity.ShowListing, error) {
	if startsAt.IsZero() {
		return nil, validationError("start time is required")
	}

	listings, err := s.repo.Report.ShowsStartingAt(ctx, startsAt.UTC())
	if err != nil {
		s.log.Error("Failed to list shows by start", zap.Time("starts_at", startsAt), zap.Error(err))
		return nil, fmt.Errorf("list shows starting at %s: %w", startsAt.Format(time.RFC3339), err)
	}
	return listings, nil
}

func (s *reportService) MovieShowsAtCinema(ctx context.Context, cinemaID, movieID int64, from, to time.Time) ([]entity.ShowListing, error) {
	if cinemaID <= 0 || movieID <= 0 {
		return nil, validationError("cinema and movie ids must be positive")
	}
	if from.IsZero() || to.IsZero() {
		return nil, validationError("both ends of the date range are required")
	}
	from, to = entity.DateOf(from), entity.DateOf(to)
	if to.Before(from) {
		return nil, validationError("range end %s is before its start %s",
			to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	cinema, err := s.repo.Cinema.FindByID(ctx, cinemaID)
	if err != nil {
		return nil, fmt.Errorf("find cinema %d: %w", cinemaID, err)
	}
	if cinema == nil {
		return nil, notFound("cinema", cinemaID)
	}

	listings, err := s.repo.Report.MovieShowsAtCinema(ctx, cinemaID, movieID, from, to)
	if err != nil {
		s.log.Error("Failed to list movie shows",
			zap.Int64("cinema_id", cinemaID),
			zap.Int64("movie_id", movieID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list shows of movie %d at cinema %d: %w", movieID, cinemaID, err)
	}
	return listings, nil
}

func (s *reportService) UsersWithPendingBookings(ctx context.Context) ([]*entity.User, error) {
	users, err := s.repo.Report.UsersWithPendingBookings(ctx)
	if err != nil {
		s.log.Error("Failed to list users with pending bookings", zap.Error(err))
		return nil, fmt.Errorf("list users with pending bookings: %w", err)
	}
	return users, nil
}

func (s *reportService) BookingsForUser(ctx context.Context, userID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingListingResponse], error) {
	if userID <= 0 {
		return nil, validationError("user id must be positive, got %d", userID)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", userID, err)
	}
	if user == nil {
		return nil, notFound("user", userID)
	}

	limit := req.Limit()
	offset := req.Offset()

	listings, err := s.repo.Report.BookingsForUser(ctx, userID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user bookings", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("get bookings of user %d: %w", userID, err)
	}

	total, err := s.repo.Report.CountBookingsForUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("count bookings of user %d: %w", userID, err)
	}

	data := make([]response.BookingListingResponse, len(listings))
	for i, l := range listings {
		data[i] = response.BookingListingToResponse(l)
	}

	page := max(req.Page, 1)
	return response.NewPaginatedResponse(data, page, limit, total), nil
}

func (s *reportService) MoviesByTitleReleasedAfter(ctx context.Context, title string, after time.Time) ([]*entity.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationError("title filter is required")
	}
	if after.IsZero() {
		return nil, validationError("release date is required")
	}
	after = entity.DateOf(after)

	movies, err := s.repo.Report.MoviesByTitleReleasedAfter(ctx, title, after)
	if err != nil {
		s.log.Error("Failed to list movies by title",
			zap.String("title", title),
			zap.Time("released_after", after),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list movies titled %q released after %s: %w", title, after.Format(time.DateOnly), err)
	}
	return movies, nil
}
