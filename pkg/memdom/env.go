package memdom

import (
	"context"
	"sync"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// Layout is the scripted layout state of one node: its computed style, its
// viewport-relative border box and a paint order for hit testing.
type Layout struct {
	Style  dom.Style
	Rect   dom.Rect
	ZIndex int
}

// DefaultStyle is the style of a node that was never placed: an ordinary
// visible block.
func DefaultStyle() dom.Style {
	return dom.Style{
		Display:    "block",
		Visibility: "visible",
		Position:   "static",
		Opacity:    1,
	}
}

type placed struct {
	Layout
	seq int
}

type pseudoKey struct {
	el     dom.Element
	pseudo string
}

// Env is a scriptable dom.Env over a memdom tree. Tests place nodes with
// explicit layout, register frame hooks to mutate layout between render
// frames, and observe scroll requests.
type Env struct {
	mu       sync.Mutex
	width    float64
	height   float64
	layouts  map[dom.Node]placed
	pseudos  map[pseudoKey]dom.Style
	seq      int
	scrolls  int
	onFrame  []func()
}

// NewEnv builds an environment with a 1280x720 viewport.
func NewEnv() *Env {
	return &Env{
		width:   1280,
		height:  720,
		layouts: map[dom.Node]placed{},
		pseudos: map[pseudoKey]dom.Style{},
	}
}

// SetViewport resizes the viewport.
func (e *Env) SetViewport(width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.width, e.height = width, height
}

// Place records layout for a node. Later placements win hit-test ties
// against equal z-indexes.
func (e *Env) Place(n dom.Node, l Layout) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.layouts[n] = placed{Layout: l, seq: e.seq}
}

// PlacePseudo records the computed style of a pseudo-element.
func (e *Env) PlacePseudo(el dom.Element, pseudo string, st dom.Style) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pseudos[pseudoKey{el: el, pseudo: pseudo}] = st
}

// OnFrame registers a hook run on every render frame, in registration
// order. Hooks typically mutate layout to script animations.
func (e *Env) OnFrame(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFrame = append(e.onFrame, fn)
}

// ScrollCalls reports how many times ScrollIntoView was invoked.
func (e *Env) ScrollCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrolls
}

func (e *Env) styleLocked(el dom.Element) dom.Style {
	if p, ok := e.layouts[el]; ok {
		return p.Style
	}
	return DefaultStyle()
}

func (e *Env) rectLocked(n dom.Node) dom.Rect {
	if p, ok := e.layouts[n]; ok {
		return p.Rect
	}
	return dom.Rect{}
}

// ComputedStyle implements dom.Env.
func (e *Env) ComputedStyle(ctx context.Context, el dom.Element, pseudo string) (dom.Style, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pseudo != "" {
		if st, ok := e.pseudos[pseudoKey{el: el, pseudo: pseudo}]; ok {
			return st, nil
		}
		return DefaultStyle(), nil
	}
	return e.styleLocked(el), nil
}

// BoundingRect implements dom.Env. Unplaced nodes have no box.
func (e *Env) BoundingRect(ctx context.Context, n dom.Node) (dom.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rectLocked(n), nil
}

// CheckVisibility implements dom.Env: the element and every composed-tree
// ancestor must be displayed and not visibility-hidden.
func (e *Env) CheckVisibility(ctx context.Context, el dom.Element) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for cur := el; cur != nil; cur = dom.ParentElementOrShadowHost(cur) {
		st := e.styleLocked(cur)
		if st.Display == "none" || st.Visibility == "hidden" {
			return false, nil
		}
	}
	return true, nil
}

// IntersectsViewport implements dom.Env.
func (e *Env) IntersectsViewport(ctx context.Context, el dom.Element) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	viewport := dom.Rect{Width: e.width, Height: e.height}
	return e.rectLocked(el).Intersects(viewport), nil
}

// ElementFromPoint implements dom.Env. Candidates come from the root's own
// tree only; shadow subtrees stay behind their hosts. The winner is the
// highest z-index, latest placement breaking ties.
func (e *Env) ElementFromPoint(ctx context.Context, root dom.Root, pt dom.Point) (dom.Element, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		best    dom.Element
		bestKey placed
	)
	var walk func(n dom.Node)
	walk = func(n dom.Node) {
		if el, ok := n.(dom.Element); ok {
			if p, placed := e.layouts[el]; placed {
				st := p.Style
				if st.Display != "none" && st.Visibility != "hidden" &&
					p.Rect.HasArea() && p.Rect.Contains(pt) {
					if best == nil || p.ZIndex > bestKey.ZIndex ||
						(p.ZIndex == bestKey.ZIndex && p.seq > bestKey.seq) {
						best, bestKey = el, p
					}
				}
			}
		}
		for _, c := range n.ChildNodes() {
			walk(c)
		}
	}
	walk(root)
	return best, nil
}

// ScrollIntoView implements dom.Env by translating every non-fixed placed
// rect so the target lands at the viewport center.
func (e *Env) ScrollIntoView(ctx context.Context, el dom.Element) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scrolls++

	target, ok := e.layouts[el]
	if !ok {
		return nil
	}
	center := target.Rect.Center()
	dx := e.width/2 - center.X
	dy := e.height/2 - center.Y
	for n, p := range e.layouts {
		if p.Style.Position == "fixed" {
			continue
		}
		p.Rect.X += dx
		p.Rect.Y += dy
		e.layouts[n] = p
	}
	return nil
}

// RequestFrame implements dom.Env by running the registered frame hooks.
func (e *Env) RequestFrame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	hooks := make([]func(), len(e.onFrame))
	copy(hooks, e.onFrame)
	e.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// ViewportSize implements dom.Env.
func (e *Env) ViewportSize(ctx context.Context) (float64, float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height, nil
}
