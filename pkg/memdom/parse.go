package memdom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// Parse reads an HTML document into a memdom tree. Comments and doctypes
// are dropped; everything else maps one to one.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := NewDocument()
	convertChildren(doc, root)
	return doc, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func convertChildren(parent dom.Node, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			el := NewElement(c.Data)
			for _, a := range c.Attr {
				if a.Namespace != "" {
					continue
				}
				el.SetAttr(a.Key, a.Val)
			}
			Append(parent, el)
			convertChildren(el, c)
		case html.TextNode:
			Append(parent, NewText(c.Data))
		}
	}
}
