package repository

import (
	"context"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMovieCreate(t *testing.T) {
	ctx := context.Background()
	released := time.Date(2011, 7, 29, 0, 0, 0, 0, time.UTC)

	t.Run("returns generated id", func(t *testing.T) {
		mock := newMock(t)
		repo := NewMovieRepository(mock, zap.NewNop())

		mock.ExpectQuery(sqlIn("INSERT INTO movies (title, duration_seconds, language, release_date)", "RETURNING id, created_at")).
			WithArgs("Crazy, Stupid, Love", int64(7080), "en", released).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), released))

		movie := &entity.Movie{Title: "Crazy, Stupid, Love", DurationSeconds: 7080, Language: "en", ReleaseDate: released}
		require.NoError(t, repo.Create(ctx, movie))
		assert.Equal(t, int64(12), movie.ID)
	})

	t.Run("unique violation is a duplicate", func(t *testing.T) {
		mock := newMock(t)
		repo := NewMovieRepository(mock, zap.NewNop())

		mock.ExpectQuery(sqlIn("INSERT INTO movies")).
			WithArgs("Crazy, Stupid, Love", int64(7080), "en", released).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "movies_title_key"})

		err := repo.Create(ctx, &entity.Movie{Title: "Crazy, Stupid, Love", DurationSeconds: 7080, Language: "en", ReleaseDate: released})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		mock := newMock(t)
		repo := NewMovieRepository(mock, zap.NewNop())

		mock.ExpectQuery(sqlIn("INSERT INTO movies")).
			WithArgs("Short", int64(0), "", released).
			WillReturnError(&pgconn.PgError{Code: "23514"})

		err := repo.Create(ctx, &entity.Movie{Title: "Short", ReleaseDate: released})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrDuplicate)
	})
}
