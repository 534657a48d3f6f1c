package dom

// Traversal helpers that tunnel through shadow boundaries. Host/root pairs
// form a DAG, so every walk is an explicit upward loop that follows the host
// edge whenever it reaches the root of a tree fragment.

// ParentElementOrShadowHost returns the parent element of a node, crossing
// into the shadow host when the parent is a shadow root. Returns nil at the
// document root or for detached fragments.
func ParentElementOrShadowHost(n Node) Element {
	if n == nil {
		return nil
	}
	switch p := n.ParentNode().(type) {
	case Element:
		return p
	case Root:
		return p.Host()
	}
	return nil
}

// EnclosingShadowRootOrDocument returns the root of the node's own tree
// fragment: its shadow root or document. Returns nil when the node is part
// of a detached fragment.
func EnclosingShadowRootOrDocument(n Node) Root {
	for n != nil {
		if r, ok := n.(Root); ok {
			return r
		}
		n = n.ParentNode()
	}
	return nil
}

// EnclosingShadowHost returns the host of the shadow root the node lives in,
// or nil when the node is in a document tree or detached.
func EnclosingShadowHost(n Node) Element {
	r := EnclosingShadowRootOrDocument(n)
	if r == nil {
		return nil
	}
	return r.Host()
}

// TopDocument returns the outermost document root reachable from the node by
// following host edges, or nil when the node is detached.
func TopDocument(n Node) Root {
	for {
		r := EnclosingShadowRootOrDocument(n)
		if r == nil {
			return nil
		}
		host := r.Host()
		if host == nil {
			return r
		}
		n = host
	}
}

// IsConnected reports whether the node is attached to a document, possibly
// through a chain of shadow hosts.
func IsConnected(n Node) bool {
	r := TopDocument(n)
	return r != nil && r.Kind() == KindDocument
}

// Contains reports whether inner is ancestor itself or one of its composed
// descendants, crossing shadow boundaries on the way up.
func Contains(ancestor Node, inner Node) bool {
	if ancestor == nil || inner == nil {
		return false
	}
	for n := inner; n != nil; {
		if n == ancestor {
			return true
		}
		if el := ParentElementOrShadowHost(n); el != nil {
			n = el
			continue
		}
		return false
	}
	return false
}

// ClosestCrossShadow walks from el upward through parents and shadow hosts
// and returns the first element satisfying match. When scope is non-nil, a
// match that is not within scope's composed subtree is not returned.
func ClosestCrossShadow(el Element, match func(Element) bool, scope Element) Element {
	for cur := el; cur != nil; cur = ParentElementOrShadowHost(cur) {
		if !match(cur) {
			continue
		}
		if scope != nil && !Contains(scope, cur) {
			return nil
		}
		return cur
	}
	return nil
}
