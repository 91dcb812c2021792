package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	return NewRepository(NewStore(zap.NewNop()))
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var id int64
	err := repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		c := &entity.Cinema{Name: "Odeon"}
		if err := tx.Cinema.Create(ctx, c); err != nil {
			return err
		}
		id = c.ID

		// not visible outside the transaction yet
		outside, err := repo.Cinema.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, outside)
		return nil
	})
	require.NoError(t, err)

	got, err := repo.Cinema.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Odeon", got.Name)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		require.NoError(t, tx.Cinema.Create(ctx, &entity.Cinema{Name: "Lost"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.Cinema.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWithinTxAbandonedWhenContextCancelled(t *testing.T) {
	repo := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		require.NoError(t, tx.Cinema.Create(ctx, &entity.Cinema{Name: "Late"}))
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	got, err := repo.Cinema.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNestedTxActsAsSavepoint(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		require.NoError(t, tx.Cinema.Create(ctx, &entity.Cinema{Name: "Kept"}))

		inner := tx.WithinTx(ctx, func(ctx context.Context, sp *repository.Repository) error {
			require.NoError(t, sp.Cinema.Create(ctx, &entity.Cinema{Name: "Dropped"}))
			return errors.New("rollback to savepoint")
		})
		require.Error(t, inner)

		return tx.WithinTx(ctx, func(ctx context.Context, sp *repository.Repository) error {
			return sp.Cinema.Create(ctx, &entity.Cinema{Name: "Also kept"})
		})
	})
	require.NoError(t, err)

	first, _ := repo.Cinema.FindByID(ctx, 1)
	require.NotNil(t, first)
	assert.Equal(t, "Kept", first.Name)

	// the counter rolled back with the savepoint, so id 2 was reused
	second, _ := repo.Cinema.FindByID(ctx, 2)
	require.NotNil(t, second)
	assert.Equal(t, "Also kept", second.Name)

	third, _ := repo.Cinema.FindByID(ctx, 3)
	assert.Nil(t, third)
}

func TestConstraintsMirrorForeignKeys(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Theater.Create(ctx, &entity.Theater{CinemaID: 99, Name: "Orphan"})
	assert.ErrorIs(t, err, ErrConstraint)

	err = repo.Booking.Create(ctx, &entity.Booking{OrderRef: "x", UserID: 1, ShowID: 1, SeatCount: 1, Status: entity.BookingStatusPending})
	assert.ErrorIs(t, err, ErrConstraint)

	err = repo.Booking.Delete(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNoRows)
}

func TestSeedAndSeatOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed, err := repository.Seed(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 50, seed.Seats)

	templates, err := repo.SeatTemplate.FindByTheaterID(ctx, seed.TheaterID)
	require.NoError(t, err)
	require.Len(t, templates, 50)
	assert.Equal(t, "A01", templates[0].Label)
	assert.Equal(t, "E10", templates[49].Label)
	assert.Equal(t, int64(1200), templates[49].PriceCents)

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	show := &entity.Show{
		MovieID: seed.MovieID, TheaterID: seed.TheaterID, ShowDate: day,
		StartsAt: day.Add(10 * time.Hour), EndsAt: day.Add(12 * time.Hour),
	}
	require.NoError(t, repo.Show.Create(ctx, show))

	seats := make([]*entity.ShowSeat, 0, len(templates))
	for i := len(templates) - 1; i >= 0; i-- {
		seats = append(seats, &entity.ShowSeat{ShowID: show.ID, SeatTemplateID: templates[i].ID, PriceCents: templates[i].PriceCents})
	}
	require.NoError(t, repo.ShowSeat.CreateBatch(ctx, seats))

	free, err := repo.ShowSeat.FindAvailable(ctx, show.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A01", "A02", "A03"}, entity.Labels(free))
}

func TestWritersAreSerializedAcrossTables(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inTx := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
			if err := tx.Cinema.Create(ctx, &entity.Cinema{Name: "Held"}); err != nil {
				return err
			}
			close(inTx)
			<-release
			return nil
		})
	}()
	<-inTx

	written := make(chan error, 1)
	go func() {
		written <- repo.User.Create(ctx, &entity.User{Email: "waiting@example.com", Name: "Waiting"})
	}()

	assert.Never(t, func() bool { return len(written) > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"a write on another table ran while a transaction was open")

	// reads are not blocked
	_, err := repo.Cinema.FindByID(ctx, 1)
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-txDone)
	require.NoError(t, <-written)
}
