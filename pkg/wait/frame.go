package wait

import (
	"context"
	"sync"
	"time"
)

// FrameSource delivers render-frame boundaries. dom.Env satisfies it.
type FrameSource interface {
	RequestFrame(ctx context.Context) error
}

// FrameWaiter retries on the next render frame instead of a timer. Useful
// where the condition samples layout and must observe one value per frame.
type FrameWaiter struct {
	frames FrameSource

	mu        sync.Mutex
	cancelled bool
	cancelCh  chan struct{}
}

// NewFrameWaiter builds a render-frame-synced waiter.
func NewFrameWaiter(frames FrameSource) *FrameWaiter {
	return &FrameWaiter{frames: frames}
}

// Wait implements the Waiter contract.
func (w *FrameWaiter) Wait(ctx context.Context, timeout time.Duration, cond Condition) (any, error) {
	cancelCh := w.reset()
	start := time.Now()

	for {
		select {
		case <-cancelCh:
			return nil, ErrCancelled
		default:
		}

		v, err := cond(ctx)

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

		if err := w.nextFrame(ctx, cancelCh); err != nil {
			return nil, err
		}
	}
}

// nextFrame blocks until the next render frame, abandoning the pending
// frame request if the wait is cancelled in the meantime.
func (w *FrameWaiter) nextFrame(ctx context.Context, cancelCh chan struct{}) error {
	fctx, fcancel := context.WithCancel(ctx)
	defer fcancel()

	done := make(chan error, 1)
	go func() {
		done <- w.frames.RequestFrame(fctx)
	}()

	select {
	case err := <-done:
		return err
	case <-cancelCh:
		fcancel()
		<-done
		return ErrCancelled
	case <-ctx.Done():
		fcancel()
		<-done
		return ctx.Err()
	}
}

// Cancel implements the Waiter contract.
func (w *FrameWaiter) Cancel() {
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

func (w *FrameWaiter) reset() chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancelled = false
	w.cancelCh = make(chan struct{})
	return w.cancelCh
}
