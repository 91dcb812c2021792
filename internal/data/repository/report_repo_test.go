package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReportMoviesByTitleReleasedAfter(t *testing.T) {
	ctx := context.Background()
	after := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "title", "duration_seconds", "language", "release_date", "created_at"}

	tests := []struct {
		name    string
		title   string
		pattern string
	}{
		{"plain phrase", "love", "%love%"},
		{"wildcards match literally", `100%_\`, `%100\%\_\\%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewReportRepository(mock, zap.NewNop())

			mock.ExpectQuery(sqlIn("FROM movies", "WHERE title ILIKE $1 AND release_date >= $2", "ORDER BY release_date, title")).
				WithArgs(tt.pattern, after).
				WillReturnRows(pgxmock.NewRows(cols).
					AddRow(int64(3), "Crazy, Stupid, Love", int64(7080), "en", time.Date(2011, 7, 29, 0, 0, 0, 0, time.UTC), after))

			movies, err := repo.MoviesByTitleReleasedAfter(ctx, tt.title, after)
			require.NoError(t, err)
			require.Len(t, movies, 1)
			assert.Equal(t, "Crazy, Stupid, Love", movies[0].Title)
		})
	}
}
