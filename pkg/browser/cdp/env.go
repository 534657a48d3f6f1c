package cdp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/domready/pkg/dom"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// errForeignNode reports a node that did not come from this adapter's
// snapshot.
var errForeignNode = errors.New("node does not belong to a cdp snapshot")

// Env implements dom.Env against a live page. Tree accessors read the
// snapshot; everything here round-trips to the browser, so results reflect
// the page as it is now, not as it was when the snapshot was taken.
type Env struct {
	target context.Context

	mu   sync.RWMutex
	tree *Tree
}

// NewEnv builds an environment bound to a chromedp target context.
func NewEnv(target context.Context) *Env {
	return &Env{target: target}
}

// SetTree installs the snapshot used to resolve hit-test results back to
// wrapper nodes.
func (e *Env) SetTree(t *Tree) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree = t
}

// run executes an action on the target, honoring the caller's deadline and
// cancellation.
func (e *Env) run(ctx context.Context, action chromedp.Action) error {
	runCtx, cancel := context.WithCancel(e.target)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, action)
}

// callOn invokes a JS function with the node as `this` and decodes the
// by-value result into out.
func (e *Env) callOn(ctx context.Context, id cdp.NodeID, fn string, await bool, out any) error {
	return e.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := cdpdom.ResolveNode().WithNodeID(id).Do(ctx)
		if err != nil {
			return fmt.Errorf("resolve node %d: %w", id, err)
		}
		defer runtime.ReleaseObject(obj.ObjectID).Do(ctx)

		params := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true)
		if await {
			params = params.WithAwaitPromise(true)
		}
		res, exc, err := params.Do(ctx)
		if err != nil {
			return fmt.Errorf("call function on node %d: %w", id, err)
		}
		if exc != nil {
			return exc
		}
		if out != nil && res != nil && res.Value != nil {
			return json.Unmarshal(res.Value, out)
		}
		return nil
	}))
}

const styleProbe = `function() {
	const s = getComputedStyle(this%s);
	return {
		display: s.display,
		visibility: s.visibility,
		position: s.position,
		overflowX: s.overflowX,
		overflowY: s.overflowY,
		opacity: parseFloat(s.opacity),
	};
}`

// ComputedStyle implements dom.Env.
func (e *Env) ComputedStyle(ctx context.Context, el dom.Element, pseudo string) (dom.Style, error) {
	id, ok := nodeID(el)
	if !ok {
		return dom.Style{}, errForeignNode
	}
	arg := ""
	if pseudo != "" {
		arg = fmt.Sprintf(", %q", pseudo)
	}
	var raw struct {
		Display    string  `json:"display"`
		Visibility string  `json:"visibility"`
		Position   string  `json:"position"`
		OverflowX  string  `json:"overflowX"`
		OverflowY  string  `json:"overflowY"`
		Opacity    float64 `json:"opacity"`
	}
	if err := e.callOn(ctx, id, fmt.Sprintf(styleProbe, arg), false, &raw); err != nil {
		return dom.Style{}, err
	}
	return dom.Style{
		Display:    raw.Display,
		Visibility: raw.Visibility,
		Position:   raw.Position,
		OverflowX:  raw.OverflowX,
		OverflowY:  raw.OverflowY,
		Opacity:    raw.Opacity,
	}, nil
}

const rectProbe = `function() {
	let r;
	if (this.nodeType === Node.TEXT_NODE) {
		const range = document.createRange();
		range.selectNode(this);
		r = range.getBoundingClientRect();
	} else {
		r = this.getBoundingClientRect();
	}
	return { x: r.x, y: r.y, width: r.width, height: r.height };
}`

// BoundingRect implements dom.Env.
func (e *Env) BoundingRect(ctx context.Context, n dom.Node) (dom.Rect, error) {
	id, ok := nodeID(n)
	if !ok {
		return dom.Rect{}, errForeignNode
	}
	var rect dom.Rect
	if err := e.callOn(ctx, id, rectProbe, false, &rect); err != nil {
		return dom.Rect{}, err
	}
	return rect, nil
}

const visibilityProbe = `function() {
	if (typeof this.checkVisibility === 'function') {
		return this.checkVisibility({ contentVisibilityAuto: true });
	}
	return true;
}`

// CheckVisibility implements dom.Env.
func (e *Env) CheckVisibility(ctx context.Context, el dom.Element) (bool, error) {
	id, ok := nodeID(el)
	if !ok {
		return false, errForeignNode
	}
	var visible bool
	if err := e.callOn(ctx, id, visibilityProbe, false, &visible); err != nil {
		return false, err
	}
	return visible, nil
}

const intersectionProbe = `function() {
	return new Promise(resolve => {
		const observer = new IntersectionObserver(entries => {
			observer.disconnect();
			resolve(entries[0].isIntersecting);
		});
		observer.observe(this);
	});
}`

// IntersectsViewport implements dom.Env with a one-shot
// IntersectionObserver, which accounts for clipping ancestors the way the
// platform does.
func (e *Env) IntersectsViewport(ctx context.Context, el dom.Element) (bool, error) {
	id, ok := nodeID(el)
	if !ok {
		return false, errForeignNode
	}
	var intersects bool
	if err := e.callOn(ctx, id, intersectionProbe, true, &intersects); err != nil {
		return false, err
	}
	return intersects, nil
}

// ElementFromPoint implements dom.Env. Both documents and open shadow roots
// expose elementFromPoint, and neither pierces into nested shadow trees.
func (e *Env) ElementFromPoint(ctx context.Context, root dom.Root, pt dom.Point) (dom.Element, error) {
	r, ok := root.(*Root)
	if !ok {
		return nil, errForeignNode
	}
	fn := fmt.Sprintf("function() { return this.elementFromPoint(%v, %v); }", pt.X, pt.Y)

	var hit dom.Element
	err := e.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := cdpdom.ResolveNode().WithNodeID(r.id).Do(ctx)
		if err != nil {
			return fmt.Errorf("resolve root %d: %w", r.id, err)
		}
		defer runtime.ReleaseObject(obj.ObjectID).Do(ctx)

		res, exc, err := runtime.CallFunctionOn(fn).WithObjectID(obj.ObjectID).Do(ctx)
		if err != nil {
			return fmt.Errorf("hit test: %w", err)
		}
		if exc != nil {
			return exc
		}
		if res == nil || res.ObjectID == "" {
			return nil
		}
		defer runtime.ReleaseObject(res.ObjectID).Do(ctx)

		id, err := cdpdom.RequestNode(res.ObjectID).Do(ctx)
		if err != nil {
			return fmt.Errorf("request node: %w", err)
		}

		e.mu.RLock()
		tree := e.tree
		e.mu.RUnlock()
		if tree != nil {
			if el := tree.elementByID(id); el != nil {
				hit = el
			}
		}
		return nil
	}))
	return hit, err
}

const scrollProbe = `function() {
	this.scrollIntoView({ behavior: 'instant', block: 'center', inline: 'center' });
}`

// ScrollIntoView implements dom.Env.
func (e *Env) ScrollIntoView(ctx context.Context, el dom.Element) error {
	id, ok := nodeID(el)
	if !ok {
		return errForeignNode
	}
	return e.callOn(ctx, id, scrollProbe, false, nil)
}

// RequestFrame implements dom.Env by awaiting the next animation frame.
func (e *Env) RequestFrame(ctx context.Context) error {
	return e.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, exc, err := runtime.Evaluate("new Promise(resolve => requestAnimationFrame(() => resolve(true)))").
			WithAwaitPromise(true).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return fmt.Errorf("await frame: %w", err)
		}
		if exc != nil {
			return exc
		}
		return nil
	}))
}

// ViewportSize implements dom.Env.
func (e *Env) ViewportSize(ctx context.Context) (float64, float64, error) {
	var width, height float64
	err := e.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, _, _, cssVisual, _, err := page.GetLayoutMetrics().Do(ctx)
		if err != nil {
			return fmt.Errorf("layout metrics: %w", err)
		}
		width = cssVisual.ClientWidth
		height = cssVisual.ClientHeight
		return nil
	}))
	return width, height, err
}
