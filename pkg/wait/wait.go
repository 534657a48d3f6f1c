// Package wait provides a uniform "poll a condition until truthy, error, or
// timeout" contract with two scheduling strategies: a timer-backed backoff
// poller and a render-frame-synced poller. The engine's wait loops are
// agnostic to which one is underneath.
package wait

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"context"
)

// Condition is one polling attempt. A nil error with a truthy value
// completes the wait; a zero value or an error schedules another attempt.
type Condition func(ctx context.Context) (any, error)

// Waiter runs a condition repeatedly until it yields a truthy value, the
// timeout elapses, or the wait is cancelled.
type Waiter interface {
	// Wait evaluates cond at least once, even with a zero timeout, and
	// returns the first truthy value. On expiry it returns a *TimeoutError
	// carrying the configured timeout; after Cancel it returns ErrCancelled.
	Wait(ctx context.Context, timeout time.Duration, cond Condition) (any, error)

	// Cancel fails the outstanding wait and guarantees no further condition
	// evaluations. Idempotent; the next Wait call resets the waiter.
	Cancel()
}

// ErrCancelled is returned when an in-flight wait is explicitly cancelled.
var ErrCancelled = errors.New("wait cancelled")

// TimeoutError reports that a wait exhausted its time budget.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("condition not met within %s", e.Timeout)
}

// IsTimeout reports whether the error is a wait timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Truthy applies JavaScript-style truthiness to a condition result: nil,
// false, zero numbers, empty strings and zero-length collections are falsy;
// everything else is truthy.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() != 0
	case reflect.Ptr, reflect.Interface, reflect.Func:
		return !rv.IsNil()
	}
	return true
}
