package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type MovieResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	DurationSeconds int64     `json:"duration_seconds"`
	Language        string    `json:"language,omitempty"`
	ReleaseDate     string    `json:"release_date"`
	CreatedAt       time.Time `json:"created_at"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:              movie.ID,
		Title:           movie.Title,
		DurationSeconds: movie.DurationSeconds,
		Language:        movie.Language,
		ReleaseDate:     movie.ReleaseDate.Format(time.DateOnly),
		CreatedAt:       movie.CreatedAt,
	}
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	out := make([]MovieResponse, len(movies))
	for i, m := range movies {
		out[i] = MovieToResponse(m)
	}
	return out
}
