package actionability

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// ClickPoint computes the viewport point an interaction should land on and
// verifies the target element is what actually receives pointer events
// there. The offset, when given, displaces the point from the rect center.
func (e *Engine) ClickPoint(ctx context.Context, el dom.Element, offset *dom.Point) (dom.Point, error) {
	if !dom.IsConnected(el) {
		return dom.Point{}, ErrNotConnected
	}
	target := viewportTarget(el)

	in, err := e.env.IntersectsViewport(ctx, target)
	if err != nil {
		return dom.Point{}, err
	}
	if !in {
		return dom.Point{}, ErrNotInViewport
	}

	rect, err := e.env.BoundingRect(ctx, target)
	if err != nil {
		return dom.Point{}, err
	}
	if !rect.HasArea() {
		return dom.Point{}, ErrZeroSize
	}

	pt := rect.Center()
	if offset != nil {
		pt.X += offset.X
		pt.Y += offset.Y
	}

	hit, err := e.topmostElementAt(ctx, el, pt)
	if err != nil {
		return dom.Point{}, err
	}
	if hit == nil {
		return dom.Point{}, fmt.Errorf("no element receives pointer events at (%.1f, %.1f)", pt.X, pt.Y)
	}
	if dom.Contains(el, hit) {
		return pt, nil
	}

	// A display:contents target has no box, so hit testing lands on its
	// parent instead. That still counts as hitting the target.
	if parent := dom.ParentElementOrShadowHost(el); parent != nil && hit == parent {
		st, serr := e.env.ComputedStyle(ctx, el, "")
		if serr == nil && st.Display == "contents" {
			return pt, nil
		}
	}

	root := dom.EnclosingShadowRootOrDocument(hit)
	return dom.Point{}, &ObstructionError{
		Obstructor: e.previewer.Preview(hit),
		Root:       e.previewer.Preview(root),
	}
}

// topmostElementAt hit-tests the point through the element's chain of
// enclosing roots, outermost document first. At each shadow boundary the
// walk only descends when the outer hit is exactly the next root's host;
// any other element means the point never reaches the inner tree, and that
// outer hit is the answer.
func (e *Engine) topmostElementAt(ctx context.Context, el dom.Element, pt dom.Point) (dom.Element, error) {
	var chain []dom.Root
	for n := dom.Node(el); n != nil; {
		root := dom.EnclosingShadowRootOrDocument(n)
		if root == nil {
			break
		}
		chain = append(chain, root)
		host := root.Host()
		if host == nil {
			break
		}
		n = host
	}
	if len(chain) == 0 {
		return nil, nil
	}

	var hit dom.Element
	for i := len(chain) - 1; i >= 0; i-- {
		h, err := e.env.ElementFromPoint(ctx, chain[i], pt)
		if err != nil {
			return nil, err
		}
		if h == nil {
			break
		}
		hit = h
		if i == 0 {
			break
		}
		if h != chain[i-1].Host() {
			break
		}
	}
	return hit, nil
}
