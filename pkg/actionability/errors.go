package actionability

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotConnected reports an element detached from every document tree.
	ErrNotConnected = errors.New("element is not attached to the DOM")

	// ErrNotInViewport reports a hit-point request on an element outside
	// the viewport.
	ErrNotInViewport = errors.New("element is outside of the viewport")

	// ErrZeroSize reports an element without positive width and height.
	ErrZeroSize = errors.New("element has no positive width or height")

	// errNotEditable is the shape error for editability queries on elements
	// the concept does not apply to.
	errNotEditable = errors.New(
		"element is not an <input>, <textarea>, <select> or [contenteditable] and has no role supporting aria-readonly")
)

// ObstructionError reports that another element occupies the computed hit
// point. Descriptions name the obstructing element and the root of the
// subtree it belongs to.
type ObstructionError struct {
	Obstructor string
	Root       string
}

func (e *ObstructionError) Error() string {
	return fmt.Sprintf("element is obscured by %s in subtree of %s", e.Obstructor, e.Root)
}

// UnviewableError reports an element that an ancestor clips out of reach: no
// amount of waiting or scrolling can bring it into the viewport.
type UnviewableError struct {
	Element string
}

func (e *UnviewableError) Error() string {
	return fmt.Sprintf("element %s is clipped by an overflow ancestor and can never be scrolled into view", e.Element)
}

// ReadyTimeoutError reports that a readiness wait exhausted its budget.
type ReadyTimeoutError struct {
	Interaction Interaction
	Timeout     time.Duration
	last        error
}

func (e *ReadyTimeoutError) Error() string {
	return fmt.Sprintf("element did not become ready for %q within %s", e.Interaction, e.Timeout)
}

func (e *ReadyTimeoutError) Unwrap() error { return e.last }
