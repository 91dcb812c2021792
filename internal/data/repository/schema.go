package repository

import (
	"context"
	"fmt"

	"cinema-ticketing/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cinemas (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		city       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS theaters (
		id         BIGSERIAL PRIMARY KEY,
		cinema_id  BIGINT NOT NULL REFERENCES cinemas(id),
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS theaters_cinema_idx ON theaters (cinema_id)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id               BIGSERIAL PRIMARY KEY,
		title            TEXT NOT NULL,
		duration_seconds BIGINT NOT NULL CHECK (duration_seconds > 0),
		language         TEXT NOT NULL DEFAULT '',
		release_date     DATE NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS movies_title_key ON movies (title)`,
	`CREATE INDEX IF NOT EXISTS movies_release_date_idx ON movies (release_date)`,
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS seat_templates (
		id          BIGSERIAL PRIMARY KEY,
		theater_id  BIGINT NOT NULL REFERENCES theaters(id),
		label       TEXT NOT NULL,
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
		UNIQUE (theater_id, label)
	)`,
	`CREATE TABLE IF NOT EXISTS shows (
		id         BIGSERIAL PRIMARY KEY,
		movie_id   BIGINT NOT NULL REFERENCES movies(id),
		theater_id BIGINT NOT NULL REFERENCES theaters(id),
		show_date  DATE NOT NULL,
		starts_at  TIMESTAMPTZ NOT NULL,
		ends_at    TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (ends_at > starts_at)
	)`,
	`CREATE INDEX IF NOT EXISTS shows_theater_date_idx ON shows (theater_id, show_date)`,
	`CREATE INDEX IF NOT EXISTS shows_starts_at_idx ON shows (starts_at)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         BIGSERIAL PRIMARY KEY,
		order_ref  TEXT NOT NULL UNIQUE,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		show_id    BIGINT NOT NULL REFERENCES shows(id),
		seat_count INT NOT NULL CHECK (seat_count >= 1),
		status     TEXT NOT NULL CHECK (status IN ('Pending', 'Paid', 'Cancelled')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_status_idx ON bookings (status, created_at)`,
	`CREATE INDEX IF NOT EXISTS bookings_user_idx ON bookings (user_id)`,
	`CREATE INDEX IF NOT EXISTS bookings_show_idx ON bookings (show_id)`,
	`CREATE TABLE IF NOT EXISTS show_seats (
		id               BIGSERIAL PRIMARY KEY,
		show_id          BIGINT NOT NULL REFERENCES shows(id),
		seat_template_id BIGINT NOT NULL REFERENCES seat_templates(id),
		price_cents      BIGINT NOT NULL CHECK (price_cents >= 0),
		booking_id       BIGINT REFERENCES bookings(id),
		UNIQUE (show_id, seat_template_id)
	)`,
	`CREATE INDEX IF NOT EXISTS show_seats_booking_idx ON show_seats (booking_id)`,
	// payments belong to the payment collaborator, so no foreign key to bookings
	`CREATE TABLE IF NOT EXISTS payments (
		id           BIGSERIAL PRIMARY KEY,
		booking_id   BIGINT NOT NULL,
		amount_cents BIGINT NOT NULL,
		method       TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS payments_booking_idx ON payments (booking_id)`,
}

// Migrate creates the schema. It is safe to run repeatedly.
func Migrate(ctx context.Context, db database.Querier) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
