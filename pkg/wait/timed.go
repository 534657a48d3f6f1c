package wait

import (
	"context"
	"sync"
	"time"
)

// defaultIntervals is used when a TimedWaiter is built without a schedule.
var defaultIntervals = []time.Duration{100 * time.Millisecond}

// TimedWaiter retries on a timer. The delay before the Nth retry is taken
// from the interval schedule at index N-1, clamped to the last entry once
// the schedule is exhausted.
type TimedWaiter struct {
	intervals []time.Duration

	mu        sync.Mutex
	cancelled bool
	cancelCh  chan struct{}
}

// NewTimedWaiter builds a timer-backed waiter with the given interval
// schedule; with no intervals a single 100ms interval is used.
func NewTimedWaiter(intervals ...time.Duration) *TimedWaiter {
	if len(intervals) == 0 {
		intervals = defaultIntervals
	}
	return &TimedWaiter{intervals: intervals}
}

// Wait implements the Waiter contract.
func (w *TimedWaiter) Wait(ctx context.Context, timeout time.Duration, cond Condition) (any, error) {
	cancelCh := w.reset()
	start := time.Now()

	for attempt := 0; ; attempt++ {
		select {
		case <-cancelCh:
			return nil, ErrCancelled
		default:
		}

		v, err := cond(ctx)

		// A cancel that raced with the evaluation wins over its result.
		select {
		case <-cancelCh:
			return nil, ErrCancelled
		default:
		}
		if err == nil && Truthy(v) {
			return v, nil
		}
		if time.Since(start) >= timeout {
			return nil, &TimeoutError{Timeout: timeout}
		}

		select {
		case <-time.After(w.interval(attempt)):
		case <-cancelCh:
			return nil, ErrCancelled
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Cancel implements the Waiter contract.
func (w *TimedWaiter) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancelled {
		return
	}
	w.cancelled = true
	if w.cancelCh != nil {
		close(w.cancelCh)
	}
}

// reset clears the cancellation flag and arms a fresh cancel channel for a
// new wait.
func (w *TimedWaiter) reset() chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancelled = false
	w.cancelCh = make(chan struct{})
	return w.cancelCh
}

func (w *TimedWaiter) interval(attempt int) time.Duration {
	if attempt >= len(w.intervals) {
		return w.intervals[len(w.intervals)-1]
	}
	return w.intervals[attempt]
}
