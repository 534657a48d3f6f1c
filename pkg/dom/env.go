package dom

import "context"

// Env exposes the layout and rendering facilities of the hosting browser
// environment. The engine owns no layout knowledge of its own; everything
// geometric or style-derived flows through this interface.
//
// All methods take a context because a live implementation round-trips to a
// browser process. Implementations must be safe for concurrent use.
type Env interface {
	// ComputedStyle resolves the post-cascade style of the element, or of
	// the given pseudo-element when pseudo is non-empty (e.g. "::before").
	ComputedStyle(ctx context.Context, el Element, pseudo string) (Style, error)

	// BoundingRect returns the border box of an element, or the union range
	// box of a text node, in viewport coordinates. A node without a layout
	// box yields the zero Rect, not an error.
	BoundingRect(ctx context.Context, n Node) (Rect, error)

	// CheckVisibility is the platform's own visibility predicate for the
	// element (content-visibility, ancestor display chains and the rest).
	CheckVisibility(ctx context.Context, el Element) (bool, error)

	// IntersectsViewport reports whether the element currently intersects
	// the viewport, per the platform's intersection facility.
	IntersectsViewport(ctx context.Context, el Element) (bool, error)

	// ElementFromPoint hit-tests the given root (document or shadow root)
	// at a viewport point. It does not pierce shadow boundaries; a shadow
	// host is returned as-is. Returns nil when nothing is hit.
	ElementFromPoint(ctx context.Context, root Root, pt Point) (Element, error)

	// ScrollIntoView scrolls the element into view, instant and
	// center-aligned on both axes.
	ScrollIntoView(ctx context.Context, el Element) error

	// RequestFrame returns once the next render frame has been produced.
	RequestFrame(ctx context.Context) error

	// ViewportSize returns the current viewport dimensions in CSS pixels.
	ViewportSize(ctx context.Context) (width, height float64, err error)
}
