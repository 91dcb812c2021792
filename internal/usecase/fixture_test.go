package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/memory"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/event"
	"cinema-ticketing/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) ofType(t event.Type) []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type mapCache struct {
	mu          sync.Mutex
	entries     map[int64][]entity.ShowSeat
	versions    map[int64]int64
	invalidated []int64
	skipped     int
}

func newMapCache() *mapCache {
	return &mapCache{
		entries:  make(map[int64][]entity.ShowSeat),
		versions: make(map[int64]int64),
	}
}

func (c *mapCache) Get(ctx context.Context, showID int64) ([]entity.ShowSeat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	seats, ok := c.entries[showID]
	return seats, ok
}

func (c *mapCache) Version(ctx context.Context, showID int64) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[showID], true
}

func (c *mapCache) Set(ctx context.Context, showID, version int64, seats []entity.ShowSeat) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[showID] != version {
		c.skipped++
		return false
	}
	c.entries[showID] = seats
	return true
}

func (c *mapCache) Invalidate(ctx context.Context, showIDs ...int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range showIDs {
		delete(c.entries, id)
		c.versions[id]++
	}
	c.invalidated = append(c.invalidated, showIDs...)
}

func (c *mapCache) cached(showID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[showID]
	return ok
}

type fixture struct {
	ctx    context.Context
	repo   *repository.Repository
	svc    *Service
	events *recordingPublisher
	cache  *mapCache
	seed   *repository.SeedResult

	theaters int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	repo := memory.NewRepository(memory.NewStore(zap.NewNop()))

	seed, err := repository.Seed(ctx, repo)
	require.NoError(t, err)

	events := &recordingPublisher{}
	seats := newMapCache()
	config := &utils.Config{Sweep: utils.SweepConfig{Concurrency: 4}}

	return &fixture{
		ctx:    ctx,
		repo:   repo,
		svc:    NewService(repo, seats, events, config, zap.NewNop()),
		events: events,
		cache:  seats,
		seed:   seed,
	}
}

func day(value string) time.Time {
	d, err := utils.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func clock(value string) time.Duration {
	c, err := utils.ParseClock(value)
	if err != nil {
		panic(err)
	}
	return c
}

// theater creates a theater in the seeded cinema with the given seat prices.
func (f *fixture) theater(t *testing.T, prices map[string]int64) int64 {
	t.Helper()

	f.theaters++
	theater := &entity.Theater{CinemaID: f.seed.CinemaID, Name: fmt.Sprintf("Test Screen %d", f.theaters)}
	require.NoError(t, f.repo.Theater.Create(f.ctx, theater))

	labels := make([]string, 0, len(prices))
	for label := range prices {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	seats := make([]*entity.SeatTemplate, len(labels))
	for i, label := range labels {
		seats[i] = &entity.SeatTemplate{TheaterID: theater.ID, Label: label, PriceCents: prices[label]}
	}
	require.NoError(t, f.repo.SeatTemplate.CreateBatch(f.ctx, seats))
	return theater.ID
}

func (f *fixture) show(t *testing.T, theaterID int64, date, start string, seconds int64) *entity.Show {
	t.Helper()

	show, err := f.svc.Schedule.ScheduleShow(f.ctx, ScheduleShowInput{
		TheaterID:       theaterID,
		MovieID:         f.seed.MovieID,
		Date:            day(date),
		Start:           clock(start),
		DurationSeconds: seconds,
	})
	require.NoError(t, err)
	return show
}

func (f *fixture) user(t *testing.T, email string) int64 {
	t.Helper()

	user := &entity.User{Email: email, Name: email}
	require.NoError(t, f.repo.User.Create(f.ctx, user))
	return user.ID
}

func (f *fixture) book(t *testing.T, showID int64, count int, status entity.BookingStatus) (*entity.Booking, []entity.ShowSeat) {
	t.Helper()

	booking, seats, err := f.svc.Booking.CreateBooking(f.ctx, CreateBookingInput{
		UserID:    f.seed.UserID,
		ShowID:    showID,
		SeatCount: count,
		Status:    status,
	})
	require.NoError(t, err)
	return booking, seats
}

func (f *fixture) owner(t *testing.T, showID int64, label string) *int64 {
	t.Helper()

	seat, err := f.repo.ShowSeat.FindByShowAndLabel(f.ctx, showID, label)
	require.NoError(t, err)
	require.NotNil(t, seat, "seat %s", label)
	return seat.BookingID
}

// assertConservation checks that every active booking holds exactly its seat
// count and every cancelled booking holds none.
func (f *fixture) assertConservation(t *testing.T) {
	t.Helper()

	for _, status := range []entity.BookingStatus{
		entity.BookingStatusPending,
		entity.BookingStatusPaid,
		entity.BookingStatusCancelled,
	} {
		ids, err := f.repo.Booking.FindIDsByStatus(f.ctx, status, time.Time{})
		require.NoError(t, err)

		for _, id := range ids {
			booking, err := f.repo.Booking.FindByID(f.ctx, id)
			require.NoError(t, err)
			held, err := f.repo.ShowSeat.CountByBookingID(f.ctx, id)
			require.NoError(t, err)

			want := booking.SeatCount
			if status == entity.BookingStatusCancelled {
				want = 0
			}
			assert.Equal(t, want, held, "booking %d (%s)", id, status)
		}
	}
}
