package actionability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/domready/pkg/actionability"
	"github.com/xkilldash9x/domready/pkg/dom"
	"github.com/xkilldash9x/domready/pkg/memdom"
	"github.com/xkilldash9x/domready/pkg/wait"
)

func TestRequiredStates(t *testing.T) {
	t.Run("should require editability for typing", func(t *testing.T) {
		states, ok := actionability.RequiredStates(actionability.Type)
		require.True(t, ok)
		assert.Contains(t, states, dom.StateEditable)
	})

	t.Run("should not require enablement for screenshots", func(t *testing.T) {
		states, ok := actionability.RequiredStates(actionability.Screenshot)
		require.True(t, ok)
		assert.NotContains(t, states, dom.StateEnabled)
	})

	t.Run("should reject unknown interactions", func(t *testing.T) {
		_, ok := actionability.RequiredStates(actionability.Interaction("yeet"))
		assert.False(t, ok)
	})
}

func TestReady(t *testing.T) {
	ctx := context.Background()
	box := dom.Rect{X: 100, Y: 100, Width: 200, Height: 100}

	t.Run("should return ready with the interaction point", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env, actionability.WithLogger(zaptest.NewLogger(t)))
		el := memdom.NewElement("button")
		memdom.Append(body, el)
		env.Place(el, block(box))

		r, err := eng.Ready(ctx, el, actionability.Click, nil)
		require.NoError(t, err)
		assert.Equal(t, actionability.Ready, r.State)
		assert.Equal(t, dom.Point{X: 200, Y: 150}, r.Point)
	})

	t.Run("should ask for a scroll when the element is off screen", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env)
		el := memdom.NewElement("button")
		memdom.Append(body, el)
		env.Place(el, block(dom.Rect{X: 100, Y: 10000, Width: 50, Height: 20}))

		r, err := eng.Ready(ctx, el, actionability.Click, nil)
		require.NoError(t, err)
		assert.Equal(t, actionability.NeedsScroll, r.State)
	})

	t.Run("should report not ready for a hidden element", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env)
		el := memdom.NewElement("button")
		memdom.Append(body, el)
		env.Place(el, styled(box, func(s *dom.Style) { s.Display = "none" }))

		r, err := eng.Ready(ctx, el, actionability.Click, nil)
		require.NoError(t, err)
		assert.Equal(t, actionability.NotReady, r.State)
	})

	t.Run("should abort on an unviewable element", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env)
		clipper := memdom.NewElement("div")
		el := memdom.NewElement("button", "id", "lost")
		memdom.Append(body, clipper)
		memdom.Append(clipper, el)
		env.Place(clipper, styled(dom.Rect{Width: 200, Height: 200}, func(s *dom.Style) {
			s.OverflowY = "hidden"
		}))
		env.Place(el, block(dom.Rect{X: 10, Y: 10000, Width: 50, Height: 20}))

		_, err := eng.Ready(ctx, el, actionability.Click, nil)
		var unviewable *actionability.UnviewableError
		require.ErrorAs(t, err, &unviewable)
		assert.Contains(t, unviewable.Element, "#lost")
	})

	t.Run("should reject unknown interactions", func(t *testing.T) {
		env, _, body := newPage()
		eng := actionability.New(env)
		el := memdom.NewElement("button")
		memdom.Append(body, el)

		_, err := eng.Ready(ctx, el, actionability.Interaction("yeet"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized interaction")
	})

	t.Run("should reject a detached element", func(t *testing.T) {
		env, _, _ := newPage()
		eng := actionability.New(env)
		el := memdom.NewElement("button")

		_, err := eng.Ready(ctx, el, actionability.Click, nil)
		assert.ErrorIs(t, err, actionability.ErrNotConnected)
	})

	t.Run("should surface the editability shape error for typing", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env)
		el := memdom.NewElement("div")
		memdom.Append(body, el)
		env.Place(el, block(box))

		_, err := eng.Ready(ctx, el, actionability.Type, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an <input>")
	})
}

func TestWaitReady(t *testing.T) {
	ctx := context.Background()

	t.Run("should scroll the element into view and retry", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env,
			actionability.WithLogger(zaptest.NewLogger(t)),
			actionability.WithIntervals(time.Millisecond))
		el := memdom.NewElement("button")
		memdom.Append(body, el)
		env.Place(el, block(dom.Rect{X: 100, Y: 10000, Width: 50, Height: 20}))

		pt, err := eng.WaitReady(ctx, el, actionability.Click, 5*time.Second, nil)
		require.NoError(t, err)

		// One scroll centers the element, so the point is the viewport center.
		assert.Equal(t, 1, env.ScrollCalls())
		assert.Equal(t, dom.Point{X: 640, Y: 360}, pt)
	})

	t.Run("should catch an element that becomes visible mid wait", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env, actionability.WithIntervals(time.Millisecond))
		el := memdom.NewElement("button")
		memdom.Append(body, el)
		box := dom.Rect{X: 10, Y: 10, Width: 50, Height: 20}
		env.Place(el, styled(box, func(s *dom.Style) { s.Display = "none" }))

		reveal := time.AfterFunc(15*time.Millisecond, func() {
			env.Place(el, block(box))
		})
		defer reveal.Stop()

		pt, err := eng.WaitReady(ctx, el, actionability.Click, 5*time.Second, nil)
		require.NoError(t, err)
		assert.Equal(t, box.Center(), pt)
	})

	t.Run("should time out on an element that never becomes ready", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env, actionability.WithIntervals(time.Millisecond))
		el := memdom.NewElement("button")
		memdom.Append(body, el)
		env.Place(el, styled(dom.Rect{X: 10, Y: 10, Width: 50, Height: 20}, func(s *dom.Style) {
			s.Visibility = "hidden"
		}))

		_, err := eng.WaitReady(ctx, el, actionability.Click, 50*time.Millisecond, nil)
		var timeout *actionability.ReadyTimeoutError
		require.ErrorAs(t, err, &timeout)
		assert.Equal(t, actionability.Click, timeout.Interaction)
		assert.Equal(t, 50*time.Millisecond, timeout.Timeout)
		assert.True(t, wait.IsTimeout(errors.Unwrap(err)))
	})

	t.Run("should abort immediately on an obstruction", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env, actionability.WithIntervals(time.Millisecond))
		el := memdom.NewElement("button")
		overlay := memdom.NewElement("div", "id", "overlay")
		memdom.Append(body, el, overlay)
		env.Place(el, block(dom.Rect{X: 100, Y: 100, Width: 200, Height: 100}))
		env.Place(overlay, memdom.Layout{
			Style:  memdom.DefaultStyle(),
			Rect:   dom.Rect{Width: 1280, Height: 720},
			ZIndex: 10,
		})

		start := time.Now()
		_, err := eng.WaitReady(ctx, el, actionability.Click, 30*time.Second, nil)
		var obstruction *actionability.ObstructionError
		require.ErrorAs(t, err, &obstruction)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("should abort immediately when unviewable", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env, actionability.WithIntervals(time.Millisecond))
		clipper := memdom.NewElement("div")
		el := memdom.NewElement("button")
		memdom.Append(body, clipper)
		memdom.Append(clipper, el)
		env.Place(clipper, styled(dom.Rect{Width: 200, Height: 200}, func(s *dom.Style) {
			s.OverflowX = "hidden"
		}))
		env.Place(el, block(dom.Rect{X: 10000, Y: 10, Width: 50, Height: 20}))

		_, err := eng.WaitReady(ctx, el, actionability.Click, 30*time.Second, nil)
		var unviewable *actionability.UnviewableError
		require.ErrorAs(t, err, &unviewable)
	})

	t.Run("should abort immediately when typing into a non editable shape", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env, _, body := newPage()
		eng := actionability.New(env, actionability.WithIntervals(time.Millisecond))
		el := memdom.NewElement("div")
		memdom.Append(body, el)
		env.Place(el, block(dom.Rect{X: 100, Y: 100, Width: 200, Height: 100}))

		start := time.Now()
		_, err := eng.WaitReady(ctx, el, actionability.Type, 30*time.Second, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an <input>")
		var timeout *actionability.ReadyTimeoutError
		assert.False(t, errors.As(err, &timeout))
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("should reject unknown interactions", func(t *testing.T) {
		env, _, _ := newPage()
		eng := actionability.New(env)

		_, err := eng.WaitReady(ctx, memdom.NewElement("button"), actionability.Interaction("yeet"), time.Second, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized interaction")
	})
}

func TestReadyStateString(t *testing.T) {
	assert.Equal(t, "ready", actionability.Ready.String())
	assert.Equal(t, "needsscroll", actionability.NeedsScroll.String())
	assert.Equal(t, "notready", actionability.NotReady.String())
}
