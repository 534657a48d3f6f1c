// Package dom defines the composed-tree node model and the host environment
// interface the actionability engine runs against. Implementations live
// elsewhere: pkg/browser/cdp adapts a live Chrome DevTools session, and
// pkg/memdom provides an in-memory tree for tests and offline inspection.
package dom

// NodeKind discriminates the node interfaces without reflection.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
	KindDocument
	KindShadowRoot
	KindOther
)

// Node is a single node of the composed tree. ParentNode stays within the
// node's own tree fragment; crossing a shadow boundary is done explicitly via
// the traversal helpers in this package.
type Node interface {
	Kind() NodeKind
	ParentNode() Node
	ChildNodes() []Node
}

// Element is an element node of the composed tree.
type Element interface {
	Node

	// Tag returns the lowercase tag name.
	Tag() string

	// Attr returns an attribute value and whether the attribute is present.
	Attr(name string) (string, bool)

	// ShadowRoot returns the open shadow root attached to this element, or
	// nil. Closed shadow roots are not exposed and behave as absent.
	ShadowRoot() Root
}

// Text is a text node.
type Text interface {
	Node
	Data() string
}

// Root is the top of a tree fragment: a document or a shadow root.
type Root interface {
	Node

	// Host returns the shadow host for shadow roots and nil for documents.
	Host() Element
}

// HasAttr reports whether the attribute is present, regardless of value.
func HasAttr(el Element, name string) bool {
	_, ok := el.Attr(name)
	return ok
}

// AttrValue returns the attribute value, or "" when absent.
func AttrValue(el Element, name string) string {
	v, _ := el.Attr(name)
	return v
}
