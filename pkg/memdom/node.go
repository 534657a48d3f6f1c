// Package memdom provides an in-memory composed tree and a scriptable
// layout environment. It backs the engine's tests and the CLI's offline
// HTML inspection mode; nothing in it talks to a browser.
package memdom

import (
	"strings"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// Document is the top of a tree.
type Document struct {
	children []dom.Node
}

// NewDocument builds an empty document.
func NewDocument() *Document { return &Document{} }

func (d *Document) Kind() dom.NodeKind     { return dom.KindDocument }
func (d *Document) ParentNode() dom.Node   { return nil }
func (d *Document) ChildNodes() []dom.Node { return d.children }
func (d *Document) Host() dom.Element      { return nil }

// ShadowRoot is an open shadow tree attached to a host element.
type ShadowRoot struct {
	host     *Element
	children []dom.Node
}

func (r *ShadowRoot) Kind() dom.NodeKind     { return dom.KindShadowRoot }
func (r *ShadowRoot) ParentNode() dom.Node   { return nil }
func (r *ShadowRoot) ChildNodes() []dom.Node { return r.children }
func (r *ShadowRoot) Host() dom.Element      { return r.host }

// Element is an element node.
type Element struct {
	tag      string
	attrs    map[string]string
	parent   dom.Node
	children []dom.Node
	shadow   *ShadowRoot
}

// NewElement builds a detached element. Attributes are given as name/value
// pairs; a trailing unpaired name becomes a value-less attribute.
func NewElement(tag string, attrPairs ...string) *Element {
	e := &Element{tag: strings.ToLower(tag), attrs: map[string]string{}}
	for i := 0; i < len(attrPairs); i += 2 {
		name := strings.ToLower(attrPairs[i])
		if i+1 < len(attrPairs) {
			e.attrs[name] = attrPairs[i+1]
		} else {
			e.attrs[name] = ""
		}
	}
	return e
}

func (e *Element) Kind() dom.NodeKind     { return dom.KindElement }
func (e *Element) ParentNode() dom.Node   { return e.parent }
func (e *Element) ChildNodes() []dom.Node { return e.children }
func (e *Element) Tag() string            { return e.tag }

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

// ShadowRoot returns the attached shadow root. The nil check matters: a
// typed nil pointer inside the interface would not compare equal to nil.
func (e *Element) ShadowRoot() dom.Root {
	if e.shadow == nil {
		return nil
	}
	return e.shadow
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	e.attrs[strings.ToLower(name)] = value
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, strings.ToLower(name))
}

// AttachShadow attaches an open shadow root to the element and returns it.
func (e *Element) AttachShadow() *ShadowRoot {
	if e.shadow == nil {
		e.shadow = &ShadowRoot{host: e}
	}
	return e.shadow
}

// Text is a text node.
type Text struct {
	parent dom.Node
	data   string
}

// NewText builds a detached text node.
func NewText(data string) *Text { return &Text{data: data} }

func (t *Text) Kind() dom.NodeKind     { return dom.KindText }
func (t *Text) ParentNode() dom.Node   { return t.parent }
func (t *Text) ChildNodes() []dom.Node { return nil }
func (t *Text) Data() string           { return t.data }

// Append attaches children to a parent, which must be a memdom document,
// shadow root or element. It reparents nodes that were attached elsewhere.
func Append(parent dom.Node, children ...dom.Node) {
	for _, c := range children {
		Detach(c)
		switch p := parent.(type) {
		case *Document:
			p.children = append(p.children, c)
		case *ShadowRoot:
			p.children = append(p.children, c)
		case *Element:
			p.children = append(p.children, c)
		default:
			panic("memdom: Append on foreign node")
		}
		setParent(c, parent)
	}
}

// Detach removes a node from its parent, leaving it disconnected.
func Detach(n dom.Node) {
	parent := n.ParentNode()
	if parent == nil {
		return
	}
	switch p := parent.(type) {
	case *Document:
		p.children = removeChild(p.children, n)
	case *ShadowRoot:
		p.children = removeChild(p.children, n)
	case *Element:
		p.children = removeChild(p.children, n)
	}
	setParent(n, nil)
}

func removeChild(children []dom.Node, n dom.Node) []dom.Node {
	out := children[:0]
	for _, c := range children {
		if c != n {
			out = append(out, c)
		}
	}
	return out
}

func setParent(n dom.Node, parent dom.Node) {
	switch t := n.(type) {
	case *Element:
		t.parent = parent
	case *Text:
		t.parent = parent
	default:
		panic("memdom: cannot reparent foreign node")
	}
}

// Find collects every element in composed-tree order, shadow subtrees
// included, for which match returns true.
func Find(root dom.Node, match func(dom.Element) bool) []dom.Element {
	var out []dom.Element
	var walk func(n dom.Node)
	walk = func(n dom.Node) {
		if el, ok := n.(dom.Element); ok {
			if match(el) {
				out = append(out, el)
			}
			if sr := el.ShadowRoot(); sr != nil {
				walk(sr)
			}
		}
		for _, c := range n.ChildNodes() {
			walk(c)
		}
	}
	walk(root)
	return out
}

// First returns the first matching element in composed-tree order, or nil.
func First(root dom.Node, match func(dom.Element) bool) dom.Element {
	matches := Find(root, match)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}
