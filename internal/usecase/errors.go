package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("show time conflict")
	ErrInsufficientSeats = errors.New("insufficient seats")
	ErrSeatUnavailable   = errors.New("seat unavailable")
	ErrPriceMismatch     = errors.New("seat price mismatch")
	ErrSeatNotOwned      = errors.New("seat not owned by booking")
	ErrSeatNotFound      = errors.New("seat not found")
	ErrIntegrity         = errors.New("integrity violation")
	ErrDuplicate         = errors.New("already exists")
)

// ConflictError names the show a scheduling request collided with.
type ConflictError struct {
	ShowID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with show %d", ErrConflict, e.ShowID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

type InsufficientSeatsError struct {
	ShowID    int64
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("%s for show %d: requested %d, available %d",
		ErrInsufficientSeats, e.ShowID, e.Requested, e.Available)
}

func (e *InsufficientSeatsError) Is(target error) bool {
	return target == ErrInsufficientSeats
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d %w", kind, id, ErrNotFound)
}

// isExpected reports whether err is a domain outcome the caller caused, as
// opposed to a store or programming failure.
func isExpected(err error) bool {
	for _, target := range []error{
		ErrValidation,
		ErrNotFound,
		ErrConflict,
		ErrInsufficientSeats,
		ErrSeatUnavailable,
		ErrPriceMismatch,
		ErrSeatNotOwned,
		ErrSeatNotFound,
		ErrIntegrity,
		ErrDuplicate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
