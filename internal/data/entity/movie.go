package entity

import (
	"time"
)

type Movie struct {
	Base
	Title           string    `db:"title"`
	DurationSeconds int64     `db:"duration_seconds"`
	Language        string    `db:"language"`
	ReleaseDate     time.Time `db:"release_date"`
}

func (m *Movie) Duration() time.Duration {
	return time.Duration(m.DurationSeconds) * time.Second
}
