package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	var err error = fmt.Errorf("schedule: %w", &ConflictError{ShowID: 3})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)

	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(3), conflict.ShowID)
	assert.Equal(t, "show time conflict with show 3", conflict.Error())

	err = &InsufficientSeatsError{ShowID: 1, Requested: 3, Available: 2}
	assert.ErrorIs(t, err, ErrInsufficientSeats)
	assert.Contains(t, err.Error(), "requested 3, available 2")
}

func TestHelpersWrapSentinels(t *testing.T) {
	assert.ErrorIs(t, validationError("bad %s", "x"), ErrValidation)
	assert.EqualError(t, notFound("booking", 9), "booking 9 not found")
	assert.ErrorIs(t, notFound("booking", 9), ErrNotFound)
}
