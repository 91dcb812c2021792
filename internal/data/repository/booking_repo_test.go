package repository

import (
	"context"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookingFindIDsByStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("zero cutoff binds NULL", func(t *testing.T) {
		mock := newMock(t)
		repo := NewBookingRepository(mock, zap.NewNop())

		mock.ExpectQuery(sqlIn("WHERE status = $1 AND ($2::timestamptz IS NULL OR created_at < $2)", "ORDER BY id")).
			WithArgs(entity.BookingStatusCancelled, nilArg[time.Time]{}).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)).AddRow(int64(8)))

		ids, err := repo.FindIDsByStatus(ctx, entity.BookingStatusCancelled, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 8}, ids)
	})

	t.Run("cutoff is bound", func(t *testing.T) {
		mock := newMock(t)
		repo := NewBookingRepository(mock, zap.NewNop())

		cutoff := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(sqlIn("$2::timestamptz IS NULL OR created_at < $2")).
			WithArgs(entity.BookingStatusPending, &cutoff).
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		ids, err := repo.FindIDsByStatus(ctx, entity.BookingStatusPending, cutoff)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestBookingLockByID(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock, zap.NewNop())

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(sqlIn("FROM bookings WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_ref", "user_id", "show_id", "seat_count", "status", "created_at", "updated_at"}).
			AddRow(int64(5), "ORD-5", int64(1), int64(3), 2, "Paid", now, now))

	booking, err := repo.LockByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, entity.BookingStatusPaid, booking.Status)
	assert.Equal(t, 2, booking.SeatCount)
}
