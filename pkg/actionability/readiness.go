package actionability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/domready/pkg/dom"
	"github.com/xkilldash9x/domready/pkg/wait"
)

// Ready performs a single readiness check for an interaction. It returns a
// Readiness verdict for recoverable shortfalls and an error for conditions
// no amount of retrying can fix.
func (e *Engine) Ready(ctx context.Context, el dom.Element, interaction Interaction, offset *dom.Point) (Readiness, error) {
	states, ok := RequiredStates(interaction)
	if !ok {
		return Readiness{}, fmt.Errorf("unrecognized interaction %q", interaction)
	}
	if !dom.IsConnected(el) {
		return Readiness{}, ErrNotConnected
	}

	res := e.ElementStates(ctx, el, states)
	if res.Err != nil {
		return Readiness{}, res.Err
	}
	if !res.Matches {
		switch res.Received {
		case dom.StateUnviewable:
			return Readiness{}, &UnviewableError{Element: e.previewer.Preview(el)}
		case dom.StateNotInView:
			return Readiness{State: NeedsScroll}, nil
		}
		e.logger.Debug("element not ready",
			zap.String("interaction", string(interaction)),
			zap.String("missing", string(res.Missing)),
			zap.String("received", string(res.Received)))
		return Readiness{State: NotReady}, nil
	}

	pt, err := e.ClickPoint(ctx, el, offset)
	if err != nil {
		return Readiness{}, err
	}
	return Readiness{State: Ready, Point: pt}, nil
}

// WaitReady polls Ready until the element is interactable or the timeout
// elapses, scrolling the element into view whenever that is what stands in
// the way. Recoverable shortfalls and transient evaluation errors retry on
// the engine's poll schedule; fatal conditions abort immediately.
func (e *Engine) WaitReady(ctx context.Context, el dom.Element, interaction Interaction, timeout time.Duration, offset *dom.Point) (dom.Point, error) {
	if _, ok := RequiredStates(interaction); !ok {
		return dom.Point{}, fmt.Errorf("unrecognized interaction %q", interaction)
	}

	var (
		point dom.Point
		fatal error
	)
	w := wait.NewTimedWaiter(e.intervals...)
	_, err := w.Wait(ctx, timeout, func(ctx context.Context) (any, error) {
		r, rerr := e.Ready(ctx, el, interaction, offset)
		if rerr != nil {
			if isFatalReadiness(rerr) {
				fatal = rerr
				return true, nil
			}
			return nil, rerr
		}
		switch r.State {
		case Ready:
			point = r.Point
			return true, nil
		case NeedsScroll:
			if serr := e.env.ScrollIntoView(ctx, el); serr != nil {
				e.logger.Debug("scroll into view failed", zap.Error(serr))
			}
			return nil, nil
		default:
			return nil, nil
		}
	})
	if fatal != nil {
		return dom.Point{}, fatal
	}
	if err != nil {
		var te *wait.TimeoutError
		if errors.As(err, &te) {
			return dom.Point{}, &ReadyTimeoutError{Interaction: interaction, Timeout: timeout, last: err}
		}
		return dom.Point{}, err
	}
	return point, nil
}

// isFatalReadiness classifies errors retrying cannot cure. Viewport misses
// stay retryable because a scroll or layout shift may fix them; an element
// whose shape rules out editing never grows into one while we wait.
func isFatalReadiness(err error) bool {
	var (
		obstruction *ObstructionError
		unviewable  *UnviewableError
	)
	return errors.Is(err, ErrNotConnected) ||
		errors.Is(err, ErrZeroSize) ||
		errors.Is(err, errNotEditable) ||
		errors.As(err, &obstruction) ||
		errors.As(err, &unviewable)
}
