package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

type BatchFailure struct {
	BookingID int64
	Err       error
}

// BatchResult reports a bulk operation booking by booking. Every booking the
// operation looked at lands in exactly one list, each sorted by id.
type BatchResult struct {
	Succeeded []int64
	Skipped   []int64
	Failed    []BatchFailure
}

// Err combines the failures, or returns nil when there were none.
func (r *BatchResult) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, fmt.Errorf("booking %d: %w", f.BookingID, f.Err))
	}
	return err
}

// runBatch applies fn to every id with at most concurrency calls in flight.
// fn returns false with a nil error when it had nothing to do for an id.
// A failing id never stops the others.
func runBatch(ctx context.Context, ids []int64, concurrency int, fn func(ctx context.Context, id int64) (bool, error)) *BatchResult {
	result := &BatchResult{
		Succeeded: []int64{},
		Skipped:   []int64{},
		Failed:    []BatchFailure{},
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(max(concurrency, 1))

	for _, id := range ids {
		g.Go(func() error {
			done, err := fn(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed = append(result.Failed, BatchFailure{BookingID: id, Err: err})
			case done:
				result.Succeeded = append(result.Succeeded, id)
			default:
				result.Skipped = append(result.Skipped, id)
			}
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(result.Succeeded)
	slices.Sort(result.Skipped)
	slices.SortFunc(result.Failed, func(a, b BatchFailure) int {
		return cmp.Compare(a.BookingID, b.BookingID)
	})
	return result
}
