package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"

	"go.uber.org/zap"
)

type MovieService interface {
	// CreateMovie adds a movie to the catalog. Titles are unique.
	CreateMovie(ctx context.Context, in CreateMovieInput) (*entity.Movie, error)
	GetMovie(ctx context.Context, movieID int64) (*entity.Movie, error)
}

type CreateMovieInput struct {
	Title           string
	ReleaseDate     time.Time
	DurationSeconds int64
	Language        string
}

const maxTitleLength = 200

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(repo *repository.Repository, log *zap.Logger) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) CreateMovie(ctx context.Context, in CreateMovieInput) (*entity.Movie, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, validationError("title is longer than %d characters", maxTitleLength)
	}
	if in.DurationSeconds <= 0 || in.DurationSeconds > secondsPerDay {
		return nil, validationError("duration %ds is out of range", in.DurationSeconds)
	}
	if in.ReleaseDate.IsZero() {
		return nil, validationError("release date is required")
	}

	movie := &entity.Movie{
		Title:           title,
		DurationSeconds: in.DurationSeconds,
		Language:        strings.TrimSpace(in.Language),
		ReleaseDate:     entity.DateOf(in.ReleaseDate),
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Warn("Movie title already exists", zap.String("title", title))
			return nil, fmt.Errorf("movie %q %w", title, ErrDuplicate)
		}
		s.log.Error("Failed to create movie", zap.String("title", title), zap.Error(err))
		return nil, fmt.Errorf("create movie %q: %w", title, err)
	}

	s.log.Info("Movie created",
		zap.Int64("movie_id", movie.ID),
		zap.String("title", movie.Title),
	)
	return movie, nil
}

func (s *movieService) GetMovie(ctx context.Context, movieID int64) (*entity.Movie, error) {
	if movieID <= 0 {
		return nil, validationError("movie id must be positive, got %d", movieID)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get movie", zap.Int64("movie_id", movieID), zap.Error(err))
		return nil, fmt.Errorf("find movie %d: %w", movieID, err)
	}
	if movie == nil {
		return nil, notFound("movie", movieID)
	}
	return movie, nil
}
