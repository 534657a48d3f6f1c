package actionability

import (
	"context"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// isVisible evaluates the visibility predicate for elements and text nodes.
// A display:contents element generates no box of its own, so visibility is
// delegated to its children; everything else combines style checks, the
// host environment's visibility probe and a positive bounding box.
func (e *Engine) isVisible(ctx context.Context, cache styleCache, n dom.Node) (bool, error) {
	switch t := n.(type) {
	case dom.Element:
		st, err := e.styleOf(ctx, cache, t, "")
		if err != nil {
			return false, err
		}
		if st.Display == "contents" {
			return e.anyChildVisible(ctx, cache, t)
		}
		if st.Display == "none" || st.Visibility == "hidden" || st.Opacity == 0 {
			return false, nil
		}
		visible, err := e.env.CheckVisibility(ctx, t)
		if err != nil {
			return false, err
		}
		if !visible {
			return false, nil
		}
		rect, err := e.env.BoundingRect(ctx, t)
		if err != nil {
			return false, err
		}
		return rect.HasArea(), nil

	case dom.Text:
		rect, err := e.env.BoundingRect(ctx, t)
		if err != nil {
			return false, err
		}
		return rect.HasArea(), nil
	}
	return false, nil
}

func (e *Engine) anyChildVisible(ctx context.Context, cache styleCache, el dom.Element) (bool, error) {
	for _, c := range el.ChildNodes() {
		switch ct := c.(type) {
		case dom.Element:
			v, err := e.isVisible(ctx, cache, ct)
			if err != nil {
				return false, err
			}
			if v {
				return true, nil
			}
		case dom.Text:
			if ct.Data() == "" {
				continue
			}
			v, err := e.isVisible(ctx, cache, ct)
			if err != nil {
				return false, err
			}
			if v {
				return true, nil
			}
		}
	}
	return false, nil
}
