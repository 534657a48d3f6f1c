// Package cdp adapts a Chrome DevTools Protocol session to the engine's
// node model and host environment interface. The tree side is a snapshot of
// the remote DOM; the environment side evaluates layout probes against the
// live page.
package cdp

import (
	"strings"

	"github.com/chromedp/cdproto/cdp"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// Tree is an immutable snapshot of a page's composed DOM. Node wrappers are
// canonical within one snapshot, so interface equality works the way the
// engine expects.
type Tree struct {
	root *Root
	byID map[cdp.NodeID]*Element
}

// Root returns the document node of the snapshot.
func (t *Tree) Root() dom.Root { return t.root }

// RootID returns the protocol node ID of the document.
func (t *Tree) RootID() cdp.NodeID { return t.root.id }

// ElementByID resolves a protocol node ID to its snapshot wrapper, or nil.
func (t *Tree) ElementByID(id cdp.NodeID) dom.Element {
	if el := t.byID[id]; el != nil {
		return el
	}
	return nil
}

// elementByID resolves a protocol node ID to its snapshot wrapper.
func (t *Tree) elementByID(id cdp.NodeID) *Element {
	return t.byID[id]
}

// BuildTree wraps a pierced DOM.getDocument result. Closed shadow roots are
// dropped; the engine treats them as absent.
func BuildTree(doc *cdp.Node) *Tree {
	t := &Tree{byID: map[cdp.NodeID]*Element{}}
	t.root = &Root{id: doc.NodeID, kind: dom.KindDocument}
	t.convertChildren(t.root, doc)
	return t
}

func (t *Tree) convertChildren(parent dom.Node, n *cdp.Node) {
	var children []dom.Node
	for _, c := range n.Children {
		switch c.NodeType {
		case cdp.NodeTypeElement:
			children = append(children, t.convertElement(parent, c))
		case cdp.NodeTypeText:
			children = append(children, &Text{id: c.NodeID, parent: parent, data: c.NodeValue})
		}
	}
	switch p := parent.(type) {
	case *Root:
		p.children = children
	case *Element:
		p.children = children
	}
}

func (t *Tree) convertElement(parent dom.Node, n *cdp.Node) *Element {
	el := &Element{
		id:     n.NodeID,
		parent: parent,
		tag:    strings.ToLower(n.NodeName),
		attrs:  attrMap(n.Attributes),
	}
	t.byID[n.NodeID] = el

	for _, sr := range n.ShadowRoots {
		if sr.ShadowRootType != cdp.ShadowRootTypeOpen {
			continue
		}
		root := &Root{id: sr.NodeID, kind: dom.KindShadowRoot, host: el}
		el.shadow = root
		t.convertChildren(root, sr)
		break
	}
	t.convertChildren(el, n)
	return el
}

func attrMap(flat []string) map[string]string {
	attrs := make(map[string]string, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		attrs[strings.ToLower(flat[i])] = flat[i+1]
	}
	return attrs
}

// Element wraps one remote element node.
type Element struct {
	id       cdp.NodeID
	parent   dom.Node
	tag      string
	attrs    map[string]string
	children []dom.Node
	shadow   *Root
}

func (e *Element) Kind() dom.NodeKind     { return dom.KindElement }
func (e *Element) ParentNode() dom.Node   { return e.parent }
func (e *Element) ChildNodes() []dom.Node { return e.children }
func (e *Element) Tag() string            { return e.tag }

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

func (e *Element) ShadowRoot() dom.Root {
	if e.shadow == nil {
		return nil
	}
	return e.shadow
}

// NodeID exposes the protocol node ID for environment calls.
func (e *Element) NodeID() cdp.NodeID { return e.id }

// Text wraps one remote text node.
type Text struct {
	id     cdp.NodeID
	parent dom.Node
	data   string
}

func (t *Text) Kind() dom.NodeKind     { return dom.KindText }
func (t *Text) ParentNode() dom.Node   { return t.parent }
func (t *Text) ChildNodes() []dom.Node { return nil }
func (t *Text) Data() string           { return t.data }

// Root wraps a remote document or open shadow root.
type Root struct {
	id       cdp.NodeID
	kind     dom.NodeKind
	host     *Element
	children []dom.Node
}

func (r *Root) Kind() dom.NodeKind     { return r.kind }
func (r *Root) ParentNode() dom.Node   { return nil }
func (r *Root) ChildNodes() []dom.Node { return r.children }

func (r *Root) Host() dom.Element {
	if r.host == nil {
		return nil
	}
	return r.host
}

// nodeID returns the protocol node ID of any snapshot node.
func nodeID(n dom.Node) (cdp.NodeID, bool) {
	switch t := n.(type) {
	case *Element:
		return t.id, true
	case *Text:
		return t.id, true
	case *Root:
		return t.id, true
	}
	return 0, false
}
