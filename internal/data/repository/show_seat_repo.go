package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowSeatRepository interface {
	// CreateBatch inserts the seats of a new show and fills in their IDs.
	CreateBatch(ctx context.Context, seats []*entity.ShowSeat) error

	// FindAvailable returns up to limit free seats in label order. limit <= 0 means all.
	FindAvailable(ctx context.Context, showID int64, limit int) ([]entity.ShowSeat, error)
	FindByShowAndLabel(ctx context.Context, showID int64, label string) (*entity.ShowSeat, error)
	FindByBookingID(ctx context.Context, bookingID int64) ([]entity.ShowSeat, error)
	CountByBookingID(ctx context.Context, bookingID int64) (int, error)
	CountReservedByShowIDs(ctx context.Context, showIDs []int64) (int, error)

	// Claim sets booking_id on the given seats that are still free and
	// returns how many it claimed.
	Claim(ctx context.Context, bookingID int64, seatIDs []int64) (int64, error)
	ReleaseByBookingID(ctx context.Context, bookingID int64) (int64, error)
	// ReleaseSeat frees one seat only if bookingID still holds it.
	ReleaseSeat(ctx context.Context, seatID, bookingID int64) (int64, error)

	DeleteByShowIDs(ctx context.Context, showIDs []int64) (int64, error)
}

type showSeatRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewShowSeatRepository(db database.Querier, log *zap.Logger) ShowSeatRepository {
	return &showSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "show_seat")),
	}
}

const showSeatSelect = `
	SELECT ss.id, ss.show_id, ss.seat_template_id, st.label, ss.price_cents, ss.booking_id
	FROM show_seats ss
	JOIN seat_templates st ON st.id = ss.seat_template_id
`

func scanShowSeats(rows pgx.Rows) ([]entity.ShowSeat, error) {
	defer rows.Close()

	seats := []entity.ShowSeat{}
	for rows.Next() {
		var seat entity.ShowSeat
		err := rows.Scan(
			&seat.ID,
			&seat.ShowID,
			&seat.SeatTemplateID,
			&seat.Label,
			&seat.PriceCents,
			&seat.BookingID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan show seat row: %w", err)
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

func (r *showSeatRepository) CreateBatch(ctx context.Context, seats []*entity.ShowSeat) error {
	for start := 0; start < len(seats); start += batchRows {
		end := min(start+batchRows, len(seats))
		if err := r.insertChunk(ctx, seats[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *showSeatRepository) insertChunk(ctx context.Context, seats []*entity.ShowSeat) error {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO show_seats (show_id, seat_template_id, price_cents, booking_id) VALUES `)
	args := make([]any, 0, len(seats)*4)

	byTemplate := make(map[[2]int64]*entity.ShowSeat, len(seats))
	for i, seat := range seats {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, seat.ShowID, seat.SeatTemplateID, seat.PriceCents, seat.BookingID)
		byTemplate[[2]int64{seat.ShowID, seat.SeatTemplateID}] = seat
	}
	sb.WriteString(` RETURNING id, show_id, seat_template_id`)

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		r.log.Error("Failed to create batch show seats", zap.Error(err), zap.Int("count", len(seats)))
		return fmt.Errorf("create batch show seats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, showID, templateID int64
		if err := rows.Scan(&id, &showID, &templateID); err != nil {
			return fmt.Errorf("scan show seat id: %w", err)
		}
		if seat, ok := byTemplate[[2]int64{showID, templateID}]; ok {
			seat.ID = id
		}
	}

	return rows.Err()
}

func (r *showSeatRepository) FindAvailable(ctx context.Context, showID int64, limit int) ([]entity.ShowSeat, error) {
	query := showSeatSelect + `
		WHERE ss.show_id = $1 AND ss.booking_id IS NULL
		ORDER BY st.label COLLATE "C"
		LIMIT $2
	`

	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := r.db.Query(ctx, query, showID, lim)
	if err != nil {
		r.log.Error("Failed to find available seats", zap.Error(err), zap.Int64("show_id", showID))
		return nil, fmt.Errorf("find available seats for show %d: %w", showID, err)
	}

	return scanShowSeats(rows)
}

func (r *showSeatRepository) FindByShowAndLabel(ctx context.Context, showID int64, label string) (*entity.ShowSeat, error) {
	query := showSeatSelect + `WHERE ss.show_id = $1 AND st.label = $2`

	var seat entity.ShowSeat
	err := r.db.QueryRow(ctx, query, showID, label).Scan(
		&seat.ID,
		&seat.ShowID,
		&seat.SeatTemplateID,
		&seat.Label,
		&seat.PriceCents,
		&seat.BookingID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find show seat by label",
			zap.Error(err),
			zap.Int64("show_id", showID),
			zap.String("label", label),
		)
		return nil, fmt.Errorf("find seat %s of show %d: %w", label, showID, err)
	}

	return &seat, nil
}

func (r *showSeatRepository) FindByBookingID(ctx context.Context, bookingID int64) ([]entity.ShowSeat, error) {
	query := showSeatSelect + `
		WHERE ss.booking_id = $1
		ORDER BY st.label COLLATE "C"
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find seats by booking ID", zap.Error(err), zap.Int64("booking_id", bookingID))
		return nil, fmt.Errorf("find seats of booking %d: %w", bookingID, err)
	}

	return scanShowSeats(rows)
}

func (r *showSeatRepository) CountByBookingID(ctx context.Context, bookingID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM show_seats WHERE booking_id = $1`, bookingID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count seats by booking ID", zap.Error(err), zap.Int64("booking_id", bookingID))
		return 0, fmt.Errorf("count seats of booking %d: %w", bookingID, err)
	}

	return count, nil
}

func (r *showSeatRepository) CountReservedByShowIDs(ctx context.Context, showIDs []int64) (int, error) {
	if len(showIDs) == 0 {
		return 0, nil
	}

	query := `SELECT COUNT(*) FROM show_seats WHERE show_id = ANY($1) AND booking_id IS NOT NULL`

	var count int
	if err := r.db.QueryRow(ctx, query, showIDs).Scan(&count); err != nil {
		r.log.Error("Failed to count reserved seats", zap.Error(err), zap.Int64s("show_ids", showIDs))
		return 0, fmt.Errorf("count reserved seats of shows %v: %w", showIDs, err)
	}

	return count, nil
}

func (r *showSeatRepository) Claim(ctx context.Context, bookingID int64, seatIDs []int64) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}

	query := `UPDATE show_seats SET booking_id = $1 WHERE id = ANY($2) AND booking_id IS NULL`

	result, err := r.db.Exec(ctx, query, bookingID, seatIDs)
	if err != nil {
		r.log.Error("Failed to claim seats",
			zap.Error(err),
			zap.Int64("booking_id", bookingID),
			zap.Int("seat_count", len(seatIDs)),
		)
		return 0, fmt.Errorf("claim seats for booking %d: %w", bookingID, err)
	}

	return result.RowsAffected(), nil
}

func (r *showSeatRepository) ReleaseByBookingID(ctx context.Context, bookingID int64) (int64, error) {
	result, err := r.db.Exec(ctx, `UPDATE show_seats SET booking_id = NULL WHERE booking_id = $1`, bookingID)
	if err != nil {
		r.log.Error("Failed to release seats", zap.Error(err), zap.Int64("booking_id", bookingID))
		return 0, fmt.Errorf("release seats of booking %d: %w", bookingID, err)
	}

	return result.RowsAffected(), nil
}

func (r *showSeatRepository) ReleaseSeat(ctx context.Context, seatID, bookingID int64) (int64, error) {
	query := `UPDATE show_seats SET booking_id = NULL WHERE id = $1 AND booking_id = $2`

	result, err := r.db.Exec(ctx, query, seatID, bookingID)
	if err != nil {
		r.log.Error("Failed to release seat",
			zap.Error(err),
			zap.Int64("seat_id", seatID),
			zap.Int64("booking_id", bookingID),
		)
		return 0, fmt.Errorf("release seat %d of booking %d: %w", seatID, bookingID, err)
	}

	return result.RowsAffected(), nil
}

func (r *showSeatRepository) DeleteByShowIDs(ctx context.Context, showIDs []int64) (int64, error) {
	if len(showIDs) == 0 {
		return 0, nil
	}

	result, err := r.db.Exec(ctx, `DELETE FROM show_seats WHERE show_id = ANY($1)`, showIDs)
	if err != nil {
		r.log.Error("Failed to delete show seats", zap.Error(err), zap.Int64s("show_ids", showIDs))
		return 0, fmt.Errorf("delete seats of shows %v: %w", showIDs, err)
	}

	return result.RowsAffected(), nil
}
