package actionability

import (
	"context"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// isScrollable reports whether scrolling could ever bring the element into
// the viewport. A fixed-position element never moves with scroll, so its
// reach is decided by its current viewport position alone. For everything
// else the walk inspects each overflow-clipping ancestor: an element that
// already sits fully outside such an ancestor's box is clipped away for
// good.
func (e *Engine) isScrollable(ctx context.Context, cache styleCache, el dom.Element) (bool, error) {
	st, err := e.styleOf(ctx, cache, el, "")
	if err != nil {
		return false, err
	}
	rect, err := e.env.BoundingRect(ctx, el)
	if err != nil {
		return false, err
	}

	if st.Position == "fixed" {
		w, h, err := e.env.ViewportSize(ctx)
		if err != nil {
			return false, err
		}
		return rect.Intersects(dom.Rect{Width: w, Height: h}), nil
	}

	for anc := dom.ParentElementOrShadowHost(el); anc != nil; anc = dom.ParentElementOrShadowHost(anc) {
		ast, err := e.styleOf(ctx, cache, anc, "")
		if err != nil {
			return false, err
		}
		if ast.CannotClip() || !ast.ClipsOverflow() {
			continue
		}
		arect, err := e.env.BoundingRect(ctx, anc)
		if err != nil {
			return false, err
		}
		if ambiguousContainer(ast, arect) {
			// An invisible or zero-sized clipper tells us nothing by
			// itself. If every element child is also hidden the subtree is
			// being suppressed wholesale, which counts as unreachable.
			hiding, err := e.hidesAllChildren(ctx, cache, anc)
			if err != nil {
				return false, err
			}
			if hiding {
				return false, nil
			}
			continue
		}
		if fullyOutside(rect, arect) {
			return false, nil
		}
	}
	return true, nil
}

func ambiguousContainer(st dom.Style, r dom.Rect) bool {
	return !r.HasArea() || st.Display == "none" || st.Visibility == "hidden" || st.Opacity == 0
}

// fullyOutside reports a rect that does not overlap the container on any
// axis, touching edges included.
func fullyOutside(r, c dom.Rect) bool {
	return r.X+r.Width <= c.X ||
		r.X >= c.X+c.Width ||
		r.Y+r.Height <= c.Y ||
		r.Y >= c.Y+c.Height
}

// hidesAllChildren reports an element with at least one element child where
// every element child is invisible.
func (e *Engine) hidesAllChildren(ctx context.Context, cache styleCache, el dom.Element) (bool, error) {
	elementChildren := 0
	for _, c := range el.ChildNodes() {
		child, ok := c.(dom.Element)
		if !ok {
			continue
		}
		elementChildren++
		v, err := e.isVisible(ctx, cache, child)
		if err != nil {
			return false, err
		}
		if v {
			return false, nil
		}
	}
	return elementChildren > 0, nil
}
