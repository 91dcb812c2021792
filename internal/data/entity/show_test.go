package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowOverlaps(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	show := &Show{StartsAt: at(10, 0), EndsAt: at(12, 0)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", at(10, 30), at(11, 30), true},
		{"straddles start", at(9, 0), at(10, 1), true},
		{"straddles end", at(11, 0), at(12, 0), true},
		{"covers", at(9, 0), at(13, 0), true},
		{"same window", at(10, 0), at(12, 0), true},
		{"ends at start", at(9, 0), at(10, 0), false},
		{"starts at end", at(12, 0), at(13, 0), false},
		{"before", at(7, 0), at(8, 0), false},
		{"after", at(14, 0), at(15, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, show.Overlaps(tt.start, tt.end))
		})
	}
}

func TestDateOf(t *testing.T) {
	in := time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), DateOf(in))
}

func TestShowSeatOwnership(t *testing.T) {
	id := int64(7)
	free := ShowSeat{Label: "A1"}
	held := ShowSeat{Label: "A2", BookingID: &id}

	assert.True(t, free.Available())
	assert.False(t, free.OwnedBy(7))
	assert.False(t, held.Available())
	assert.True(t, held.OwnedBy(7))
	assert.False(t, held.OwnedBy(8))
	assert.Equal(t, []string{"A1", "A2"}, Labels([]ShowSeat{free, held}))
}
