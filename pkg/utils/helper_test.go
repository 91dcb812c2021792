package utils

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc", "1.5"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseDateAndClock(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	c, err := ParseClock("10:30:15")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Hour+30*time.Minute+15*time.Second, c)

	_, err = ParseClock("25:00:00")
	assert.Error(t, err)
	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)
}

func TestGenerateOrderRef(t *testing.T) {
	ref := GenerateOrderRef(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^BK-20240601-[0-9A-F]{8}$`), ref)
	assert.NotEqual(t, ref, GenerateOrderRef(time.Now()))
}

func TestRequestIDContext(t *testing.T) {
	_, ok := GetRequestIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := SetRequestID(context.Background(), "abc")
	id, ok := GetRequestIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))
	assert.Equal(t, 0, CalculateOffset(0, 10))
}
