// Package memory implements every repository over process memory. It backs
// the use case tests and STORE=memory for local development.
//
// Transactions are copy-on-write: a transaction works on a clone of the
// committed state and swaps it in on success. Writers are serialized by a
// single store-wide lock, so locking reads are plain reads here and writers
// on unrelated shows still wait for each other. Production runs Postgres.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"

	"go.uber.org/zap"
)

// ErrConstraint mirrors a foreign key or unique violation in Postgres.
var ErrConstraint = errors.New("constraint violation")

type state struct {
	cinemas   map[int64]entity.Cinema
	theaters  map[int64]entity.Theater
	movies    map[int64]entity.Movie
	users     map[int64]entity.User
	templates map[int64]entity.SeatTemplate
	shows     map[int64]entity.Show
	seats     map[int64]entity.ShowSeat
	bookings  map[int64]entity.Booking
	payments  map[int64]entity.Payment
	seq       map[string]int64
}

func newState() *state {
	return &state{
		cinemas:   map[int64]entity.Cinema{},
		theaters:  map[int64]entity.Theater{},
		movies:    map[int64]entity.Movie{},
		users:     map[int64]entity.User{},
		templates: map[int64]entity.SeatTemplate{},
		shows:     map[int64]entity.Show{},
		seats:     map[int64]entity.ShowSeat{},
		bookings:  map[int64]entity.Booking{},
		payments:  map[int64]entity.Payment{},
		seq:       map[string]int64{},
	}
}

// clone copies every table. ShowSeat.BookingID pointers are shared, which is
// safe because they are replaced, never written through.
func (s *state) clone() *state {
	return &state{
		cinemas:   maps.Clone(s.cinemas),
		theaters:  maps.Clone(s.theaters),
		movies:    maps.Clone(s.movies),
		users:     maps.Clone(s.users),
		templates: maps.Clone(s.templates),
		shows:     maps.Clone(s.shows),
		seats:     maps.Clone(s.seats),
		bookings:  maps.Clone(s.bookings),
		payments:  maps.Clone(s.payments),
		seq:       maps.Clone(s.seq),
	}
}

func (s *state) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

type Store struct {
	writeMu sync.Mutex   // held by every writer, transactional or not
	mu      sync.RWMutex // guards live
	live    *state
	log     *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	return &Store{live: newState(), log: log.With(zap.String("store", "memory"))}
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live.clone()
}

// Ping always succeeds. It lets the store stand in for a database in health checks.
func (s *Store) Ping(context.Context) error { return nil }

// handle routes table access either to a transaction's working state or to
// the committed state under the store locks.
type handle struct {
	store *Store
	st    *state
}

func (h *handle) read(fn func(*state) error) error {
	if h.st != nil {
		return fn(h.st)
	}
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	return fn(h.store.live)
}

// write runs fn against committed state when outside a transaction. fn must
// validate before it mutates.
func (h *handle) write(fn func(*state) error) error {
	if h.st != nil {
		return fn(h.st)
	}
	h.store.writeMu.Lock()
	defer h.store.writeMu.Unlock()
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.live)
}

type transactor struct {
	h *handle
}

func (t *transactor) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if t.h.st != nil {
		// savepoint
		sp := t.h.st.clone()
		if err := fn(ctx, newRepository(&handle{store: t.h.store, st: sp})); err != nil {
			return err
		}
		*t.h.st = *sp
		return nil
	}

	store := t.h.store
	store.writeMu.Lock()
	defer store.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	work := store.snapshot()
	if err := fn(ctx, newRepository(&handle{store: store, st: work})); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		store.log.Warn("Transaction abandoned before commit", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	store.mu.Lock()
	store.live = work
	store.mu.Unlock()
	return nil
}

// NewRepository returns a Repository over the store's committed state.
func NewRepository(store *Store) *repository.Repository {
	return newRepository(&handle{store: store})
}

func newRepository(h *handle) *repository.Repository {
	return &repository.Repository{
		Cinema:       &cinemaRepository{h: h},
		Theater:      &theaterRepository{h: h},
		Movie:        &movieRepository{h: h},
		User:         &userRepository{h: h},
		SeatTemplate: &seatTemplateRepository{h: h},
		Show:         &showRepository{h: h},
		ShowSeat:     &showSeatRepository{h: h},
		Booking:      &bookingRepository{h: h},
		Payment:      &paymentRepository{h: h},
		Report:       &reportRepository{h: h},
		Tx:           &transactor{h: h},
	}
}

func ptr[T any](v T) *T { return &v }
