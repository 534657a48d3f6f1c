// Package actionability decides whether a DOM element is ready for a
// simulated user interaction and where that interaction should land. It
// reconciles box state, accessibility semantics, shadow composition and
// frame timing into a single yes/no/why-not answer.
package actionability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/domready/pkg/aria"
	"github.com/xkilldash9x/domready/pkg/dom"
	"github.com/xkilldash9x/domready/pkg/wait"
)

const (
	// stableFrameThreshold is how many consecutive unchanged render frames
	// declare a bounding rect stable.
	stableFrameThreshold = 1

	// stabilitySampleBudget bounds a single stability sample so an element
	// in permanent motion reports unstable instead of stalling the query.
	stabilitySampleBudget = 300 * time.Millisecond
)

// readyIntervals is the escalating poll schedule for readiness waits: an
// already-ready element resolves with no delay, transient states resolve
// within two frames, and long waits do not busy-poll.
var readyIntervals = []time.Duration{
	0, 0,
	20 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	100 * time.Millisecond,
	500 * time.Millisecond,
}

// Engine evaluates element states and interaction readiness against a host
// environment. An Engine is safe for concurrent use; the style cache it
// maintains is scoped to a single query and purely advisory.
type Engine struct {
	env       dom.Env
	logger    *zap.Logger
	previewer NodePreviewer
	intervals []time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l.Named("actionability") }
}

// WithPreviewer replaces the diagnostic node formatter used in error
// messages.
func WithPreviewer(p NodePreviewer) Option {
	return func(e *Engine) { e.previewer = p }
}

// WithIntervals overrides the readiness poll schedule.
func WithIntervals(intervals ...time.Duration) Option {
	return func(e *Engine) { e.intervals = intervals }
}

// New builds an engine over the given host environment.
func New(env dom.Env, opts ...Option) *Engine {
	e := &Engine{
		env:       env,
		logger:    zap.NewNop(),
		previewer: defaultPreviewer{},
		intervals: readyIntervals,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// styleKey identifies one cached computed-style snapshot.
type styleKey struct {
	el     dom.Element
	pseudo string
}

// styleCache holds the styles observed during a single query. Stale values
// are acceptable; the cache only saves round trips within one call.
type styleCache map[styleKey]dom.Style

func (e *Engine) styleOf(ctx context.Context, cache styleCache, el dom.Element, pseudo string) (dom.Style, error) {
	key := styleKey{el: el, pseudo: pseudo}
	if st, ok := cache[key]; ok {
		return st, nil
	}
	st, err := e.env.ComputedStyle(ctx, el, pseudo)
	if err != nil {
		return dom.Style{}, fmt.Errorf("computed style: %w", err)
	}
	cache[key] = st
	return st, nil
}

// ElementState queries one state of an element. A detached element yields a
// result, not an error; only an unrecognized state or an editability query
// on an inapplicable element fails.
func (e *Engine) ElementState(ctx context.Context, el dom.Element, state dom.State) (StateResult, error) {
	if !state.Queryable() {
		return StateResult{}, fmt.Errorf("unrecognized element state %q", state)
	}
	if !dom.IsConnected(el) {
		return StateResult{Matches: false, Received: dom.StateNotConnected}, nil
	}
	return e.elementState(ctx, styleCache{}, el, state)
}

func (e *Engine) elementState(ctx context.Context, cache styleCache, el dom.Element, state dom.State) (StateResult, error) {
	switch state {
	case dom.StateVisible, dom.StateHidden:
		visible, err := e.isVisible(ctx, cache, el)
		if err != nil {
			return StateResult{}, err
		}
		received := dom.StateHidden
		if visible {
			received = dom.StateVisible
		}
		return StateResult{Matches: received == state, Received: received}, nil

	case dom.StateEnabled, dom.StateDisabled:
		disabled := e.isDisabled(el)
		received := dom.StateEnabled
		if disabled {
			received = dom.StateDisabled
		}
		return StateResult{Matches: received == state, Received: received}, nil

	case dom.StateEditable:
		received, err := e.editableState(el)
		if err != nil {
			return StateResult{}, err
		}
		return StateResult{Matches: received == dom.StateEditable, Received: received}, nil

	case dom.StateInView:
		received, err := e.inViewState(ctx, cache, el)
		if err != nil {
			return StateResult{}, err
		}
		return StateResult{Matches: received == dom.StateInView, Received: received}, nil

	case dom.StateStable:
		stable, err := e.isStable(ctx, el)
		if err != nil {
			return StateResult{}, err
		}
		received := dom.StateUnstable
		if stable {
			received = dom.StateStable
		}
		return StateResult{Matches: stable, Received: received}, nil
	}
	return StateResult{}, fmt.Errorf("unrecognized element state %q", state)
}

// ElementStates evaluates several states as one combinator. Stability is
// always evaluated first regardless of its position in the list, since it
// is the only check that waits on frames; the remaining states run in the
// order supplied and the first miss short-circuits. The combinator never
// returns a Go error: not-connected and evaluation failures surface in Err.
func (e *Engine) ElementStates(ctx context.Context, el dom.Element, states []dom.State) StatesResult {
	for _, s := range states {
		if !s.Queryable() {
			return StatesResult{Err: fmt.Errorf("unrecognized element state %q", s)}
		}
	}
	if !dom.IsConnected(el) {
		return StatesResult{Err: ErrNotConnected}
	}

	ordered := make([]dom.State, 0, len(states))
	for _, s := range states {
		if s == dom.StateStable {
			ordered = append(ordered, s)
		}
	}
	if len(ordered) > 1 {
		ordered = ordered[:1]
	}
	for _, s := range states {
		if s != dom.StateStable {
			ordered = append(ordered, s)
		}
	}

	cache := styleCache{}
	for _, s := range ordered {
		res, err := e.elementState(ctx, cache, el, s)
		if err != nil {
			return StatesResult{Err: err}
		}
		if !res.Matches {
			return StatesResult{Missing: s, Received: res.Received}
		}
	}
	return StatesResult{Matches: true}
}

// IsVisible mirrors the visible state predicate.
func (e *Engine) IsVisible(ctx context.Context, el dom.Element) (bool, error) {
	return e.isVisible(ctx, styleCache{}, el)
}

// IsDisabled reports native or inherited aria disabled state.
func (e *Engine) IsDisabled(ctx context.Context, el dom.Element) (bool, error) {
	return e.isDisabled(el), nil
}

// IsReadOnly reports read-only state; it errors when the element does not
// support the read-only concept at all.
func (e *Engine) IsReadOnly(ctx context.Context, el dom.Element) (bool, error) {
	if !editableApplies(el) {
		return false, errNotEditable
	}
	return isReadOnly(el), nil
}

// IsScrollable reports whether the element could be brought into the
// viewport by scrolling.
func (e *Engine) IsScrollable(ctx context.Context, el dom.Element) (bool, error) {
	return e.isScrollable(ctx, styleCache{}, el)
}

// InViewport reports whether the element currently intersects the viewport.
// Options and optgroups defer to their owning select, which carries the box.
func (e *Engine) InViewport(ctx context.Context, el dom.Element) (bool, error) {
	return e.env.IntersectsViewport(ctx, viewportTarget(el))
}

// ViewportRect returns the element's viewport rectangle, or nil when the
// element does not intersect the viewport.
func (e *Engine) ViewportRect(ctx context.Context, el dom.Element) (*dom.Rect, error) {
	target := viewportTarget(el)
	in, err := e.env.IntersectsViewport(ctx, target)
	if err != nil || !in {
		return nil, err
	}
	rect, err := e.env.BoundingRect(ctx, target)
	if err != nil {
		return nil, err
	}
	return &rect, nil
}

// isDisabled combines native HTML disabled semantics with inherited
// explicit aria-disabled.
func (e *Engine) isDisabled(el dom.Element) bool {
	return dom.IsNativelyDisabled(el) || aria.HasExplicitAriaDisabled(el, true)
}

// editableApplies reports whether the editability concept applies to the
// element at all.
func editableApplies(el dom.Element) bool {
	switch el.Tag() {
	case "input", "textarea", "select":
		return true
	}
	if v, ok := el.Attr("contenteditable"); ok && v != "false" {
		return true
	}
	return aria.IsReadOnlyRole(el)
}

// isReadOnly reports the native readonly attribute or an explicit
// aria-readonly="true" on a supporting role.
func isReadOnly(el dom.Element) bool {
	switch el.Tag() {
	case "input", "textarea":
		if dom.HasAttr(el, "readonly") {
			return true
		}
	}
	return aria.HasAriaReadOnly(el)
}

// editableState resolves the editability of an applicable element. The
// blocking conditions rank: disabled beats read-only beats editable.
func (e *Engine) editableState(el dom.Element) (dom.State, error) {
	if !editableApplies(el) {
		return "", errNotEditable
	}
	if e.isDisabled(el) {
		return dom.StateDisabled, nil
	}
	if isReadOnly(el) {
		return dom.StateReadOnly, nil
	}
	return dom.StateEditable, nil
}

// inViewState classifies viewport intersection: inview, notinview when
// scrolling could still help, unviewable when an overflow ancestor clips
// the element out of reach for good.
func (e *Engine) inViewState(ctx context.Context, cache styleCache, el dom.Element) (dom.State, error) {
	in, err := e.env.IntersectsViewport(ctx, viewportTarget(el))
	if err != nil {
		return "", err
	}
	if in {
		return dom.StateInView, nil
	}
	scrollable, err := e.isScrollable(ctx, cache, el)
	if err != nil {
		return "", err
	}
	if scrollable {
		return dom.StateNotInView, nil
	}
	return dom.StateUnviewable, nil
}

// isStable samples the bounding rect on consecutive render frames until it
// has not changed across the stability threshold. An element still moving
// when the sample budget runs out is unstable, not an error.
func (e *Engine) isStable(ctx context.Context, el dom.Element) (bool, error) {
	var (
		last    dom.Rect
		sampled bool
		streak  int
		envErr  error
	)
	fw := wait.NewFrameWaiter(e.env)
	_, err := fw.Wait(ctx, stabilitySampleBudget, func(ctx context.Context) (any, error) {
		rect, rerr := e.env.BoundingRect(ctx, el)
		if rerr != nil {
			envErr = rerr
			return true, nil
		}
		if sampled && rect == last {
			streak++
		} else {
			streak = 0
		}
		last, sampled = rect, true
		return streak >= stableFrameThreshold, nil
	})
	if envErr != nil {
		return false, envErr
	}
	if err != nil {
		if wait.IsTimeout(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// viewportTarget substitutes the owning select for option and optgroup
// elements, which have no box of their own.
func viewportTarget(el dom.Element) dom.Element {
	switch el.Tag() {
	case "option", "optgroup":
		if sel := dom.ClosestCrossShadow(el, func(e dom.Element) bool {
			return e.Tag() == "select"
		}, nil); sel != nil {
			return sel
		}
	}
	return el
}
