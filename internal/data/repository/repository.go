package repository

import (
	"context"
	"errors"
	"fmt"

	"cinema-ticketing/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrNoRows is returned by updates and deletes that had to hit a row and did not.
	ErrNoRows = errors.New("no rows affected")
	// ErrDuplicate is returned when an insert hits a unique key.
	ErrDuplicate = errors.New("duplicate key")
)

// TxFunc receives a Repository bound to the running transaction.
type TxFunc func(ctx context.Context, repo *Repository) error

// Transactor runs fn atomically: every write made through the Repository it
// receives commits together, or none does.
type Transactor interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

type Repository struct {
	Cinema       CinemaRepository
	Theater      TheaterRepository
	Movie        MovieRepository
	User         UserRepository
	SeatTemplate SeatTemplateRepository
	Show         ShowRepository
	ShowSeat     ShowSeatRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	Report       ReportRepository

	Tx Transactor
}

func (r *Repository) WithinTx(ctx context.Context, fn TxFunc) error {
	return r.Tx.WithinTx(ctx, fn)
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Cinema:       NewCinemaRepository(db, log),
		Theater:      NewTheaterRepository(db, log),
		Movie:        NewMovieRepository(db, log),
		User:         NewUserRepository(db, log),
		SeatTemplate: NewSeatTemplateRepository(db, log),
		Show:         NewShowRepository(db, log),
		ShowSeat:     NewShowSeatRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		Report:       NewReportRepository(db, log),
		Tx:           &pgTransactor{db: db, log: log},
	}
}

type pgTransactor struct {
	db  database.Querier
	log *zap.Logger
}

// WithinTx begins a transaction, or a savepoint when db is already a pgx.Tx.
func (t *pgTransactor) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	if err := fn(ctx, NewRepository(tx, t.log)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Warn("Transaction commit failed", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
