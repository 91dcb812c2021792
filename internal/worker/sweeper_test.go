package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinema-ticketing/internal/usecase"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeBookings struct {
	mu      sync.Mutex
	ages    []time.Duration
	clears  int
	failing bool
}

func (f *fakeBookings) CancelPendingOlderThan(ctx context.Context, age time.Duration) (*usecase.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ages = append(f.ages, age)
	if f.failing {
		return nil, errors.New("store down")
	}
	return &usecase.BatchResult{Succeeded: []int64{1}}, nil
}

func (f *fakeBookings) ClearCancelledBookings(ctx context.Context) (*usecase.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return &usecase.BatchResult{}, nil
}

func (f *fakeBookings) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ages), f.clears
}

func TestRunOnce(t *testing.T) {
	bookings := &fakeBookings{}
	NewSweeper(bookings, time.Minute, 15*time.Minute, zap.NewNop()).RunOnce(context.Background())

	assert.Equal(t, []time.Duration{15 * time.Minute}, bookings.ages)
	assert.Equal(t, 1, bookings.clears)
}

func TestRunOnce_NoExpiryConfigured(t *testing.T) {
	bookings := &fakeBookings{}
	NewSweeper(bookings, time.Minute, 0, zap.NewNop()).RunOnce(context.Background())

	assert.Empty(t, bookings.ages)
	assert.Equal(t, 1, bookings.clears)
}

func TestRunOnce_ExpiryFailureStillPurges(t *testing.T) {
	bookings := &fakeBookings{failing: true}
	NewSweeper(bookings, time.Minute, time.Minute, zap.NewNop()).RunOnce(context.Background())

	assert.Equal(t, 1, bookings.clears)
}

func TestStart_TicksUntilCancelled(t *testing.T) {
	bookings := &fakeBookings{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewSweeper(bookings, 5*time.Millisecond, time.Minute, zap.NewNop()).Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, clears := bookings.calls()
		return clears >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestStart_Disabled(t *testing.T) {
	bookings := &fakeBookings{}
	NewSweeper(bookings, 0, time.Minute, zap.NewNop()).Start(context.Background())

	expiries, clears := bookings.calls()
	assert.Zero(t, expiries)
	assert.Zero(t, clears)
}
