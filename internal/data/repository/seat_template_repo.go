package repository

import (
	"context"
	"fmt"
	"strings"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"go.uber.org/zap"
)

// batchRows caps rows per multi-VALUES insert, well below the protocol's
// 65535 bind parameter limit.
const batchRows = 1000

type SeatTemplateRepository interface {
	// CreateBatch inserts the templates and fills in their IDs.
	CreateBatch(ctx context.Context, seats []*entity.SeatTemplate) error
	// FindByTheaterID returns the theater's layout in label order.
	FindByTheaterID(ctx context.Context, theaterID int64) ([]*entity.SeatTemplate, error)
}

type seatTemplateRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSeatTemplateRepository(db database.Querier, log *zap.Logger) SeatTemplateRepository {
	return &seatTemplateRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_template")),
	}
}

func (r *seatTemplateRepository) CreateBatch(ctx context.Context, seats []*entity.SeatTemplate) error {
	for start := 0; start < len(seats); start += batchRows {
		end := min(start+batchRows, len(seats))
		if err := r.insertChunk(ctx, seats[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *seatTemplateRepository) insertChunk(ctx context.Context, seats []*entity.SeatTemplate) error {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO seat_templates (theater_id, label, price_cents) VALUES `)
	args := make([]any, 0, len(seats)*3)

	byKey := make(map[string]*entity.SeatTemplate, len(seats))
	for i, seat := range seats {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, seat.TheaterID, seat.Label, seat.PriceCents)
		byKey[templateKey(seat.TheaterID, seat.Label)] = seat
	}
	sb.WriteString(` RETURNING id, theater_id, label`)

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		r.log.Error("Failed to create batch seat templates", zap.Error(err), zap.Int("count", len(seats)))
		return fmt.Errorf("create batch seat templates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, theaterID int64
			label         string
		)
		if err := rows.Scan(&id, &theaterID, &label); err != nil {
			return fmt.Errorf("scan seat template id: %w", err)
		}
		if seat, ok := byKey[templateKey(theaterID, label)]; ok {
			seat.ID = id
		}
	}

	return rows.Err()
}

func templateKey(theaterID int64, label string) string {
	return fmt.Sprintf("%d/%s", theaterID, label)
}

func (r *seatTemplateRepository) FindByTheaterID(ctx context.Context, theaterID int64) ([]*entity.SeatTemplate, error) {
	query := `
		SELECT id, theater_id, label, price_cents
		FROM seat_templates
		WHERE theater_id = $1
		ORDER BY label COLLATE "C"
	`

	rows, err := r.db.Query(ctx, query, theaterID)
	if err != nil {
		r.log.Error("Failed to find seat templates by theater ID",
			zap.Error(err),
			zap.Int64("theater_id", theaterID),
		)
		return nil, fmt.Errorf("find seat templates by theater ID %d: %w", theaterID, err)
	}
	defer rows.Close()

	var seats []*entity.SeatTemplate
	for rows.Next() {
		var seat entity.SeatTemplate
		if err := rows.Scan(&seat.ID, &seat.TheaterID, &seat.Label, &seat.PriceCents); err != nil {
			r.log.Error("Failed to scan seat template row", zap.Error(err))
			return nil, fmt.Errorf("scan seat template row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, rows.Err()
}
