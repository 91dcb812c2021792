package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestRenderBatch(t *testing.T) {
	var out bytes.Buffer
	renderBatch(&out, &usecase.BatchResult{
		Succeeded: []int64{1, 4},
		Skipped:   []int64{2},
		Failed:    []usecase.BatchFailure{{BookingID: 3, Err: errors.New("booking 3 holds 2 seats")}},
	})

	got := out.String()
	assert.Contains(t, got, "done")
	assert.Contains(t, got, "skipped")
	assert.Contains(t, got, "booking 3 holds 2 seats")
	assert.Contains(t, got, "TOTAL")
	assert.Contains(t, got, "4")
}

func TestRenderShows(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	renderShows(&out, []entity.ShowListing{{
		CinemaName:  "Grand Cinema",
		TheaterName: "Screen 1",
		MovieTitle:  "The Long Matinee",
		StartsAt:    day.Add(18*time.Hour + 30*time.Minute),
		EndsAt:      day.Add(20*time.Hour + 30*time.Minute),
	}})

	got := out.String()
	assert.Contains(t, got, "Grand Cinema")
	assert.Contains(t, got, "18:30:00")
	assert.Contains(t, got, "20:30:00")
}

func TestRenderMovies(t *testing.T) {
	var out bytes.Buffer
	renderMovies(&out, []*entity.Movie{{
		Base:            entity.Base{ID: 3},
		Title:           "Crazy, Stupid, Love",
		DurationSeconds: 7080,
		Language:        "English",
		ReleaseDate:     time.Date(2011, 7, 29, 0, 0, 0, 0, time.UTC),
	}})

	got := out.String()
	assert.Contains(t, got, "Crazy, Stupid, Love")
	assert.Contains(t, got, "2011-07-29")
	assert.Contains(t, got, "1h58m0s")
	assert.Contains(t, got, "TOTAL")
}
