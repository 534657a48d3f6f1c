package aria

import (
	"strconv"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// implicitRole derives the role from tag name, input type and context. The
// rules are an ordered set of pattern matches ending in a fixed table; an
// unmatched tag has no role.
func implicitRole(el dom.Element) string {
	switch tag := el.Tag(); tag {
	case "a", "area":
		// Anchors and areas are links only with an href.
		if dom.HasAttr(el, "href") {
			return "link"
		}
		return "generic"
	case "input":
		return inputRole(el)
	case "select":
		if dom.HasAttr(el, "multiple") || selectSize(el) > 1 {
			return "listbox"
		}
		return "combobox"
	case "td":
		if gridContext(el) {
			return "gridcell"
		}
		return "cell"
	case "th":
		switch dom.AttrValue(el, "scope") {
		case "col":
			return "columnheader"
		case "row":
			return "rowheader"
		}
		if gridContext(el) {
			return "gridcell"
		}
		return "cell"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	default:
		return tagRoles[tag]
	}
}

// tagRoles covers the tags whose implicit role needs no context.
var tagRoles = map[string]string{
	"article":    "article",
	"aside":      "complementary",
	"blockquote": "blockquote",
	"button":     "button",
	"caption":    "caption",
	"code":       "code",
	"datalist":   "listbox",
	"dd":         "definition",
	"del":        "deletion",
	"details":    "group",
	"dfn":        "term",
	"dialog":     "dialog",
	"dt":         "term",
	"em":         "emphasis",
	"fieldset":   "group",
	"figure":     "figure",
	"footer":     "contentinfo",
	"form":       "form",
	"header":     "banner",
	"hr":         "separator",
	"html":       "document",
	"img":        "img",
	"ins":        "insertion",
	"li":         "listitem",
	"main":       "main",
	"math":       "math",
	"menu":       "list",
	"meter":      "meter",
	"nav":        "navigation",
	"ol":         "list",
	"optgroup":   "group",
	"option":     "option",
	"output":     "status",
	"p":          "paragraph",
	"progress":   "progressbar",
	"search":     "search",
	"section":    "region",
	"strong":     "strong",
	"sub":        "subscript",
	"sup":        "superscript",
	"table":      "table",
	"tbody":      "rowgroup",
	"textarea":   "textbox",
	"tfoot":      "rowgroup",
	"thead":      "rowgroup",
	"time":       "time",
	"tr":         "row",
	"ul":         "list",
}

// inputRole resolves the implicit role of an <input> from its type and,
// for text-like types, from a resolving list attribute.
func inputRole(el dom.Element) string {
	switch dom.AttrValue(el, "type") {
	case "button", "image", "reset", "submit":
		return "button"
	case "checkbox":
		return "checkbox"
	case "radio":
		return "radio"
	case "range":
		return "slider"
	case "number":
		return "spinbutton"
	case "hidden":
		return ""
	case "file":
		return "button"
	case "text", "search", "email", "tel", "url", "":
		// A list attribute referencing an existing datalist turns a
		// text-like input into a combobox.
		if id, ok := el.Attr("list"); ok && id != "" {
			if target := findByID(el, id); target != nil && target.Tag() == "datalist" {
				return "combobox"
			}
		}
		return "textbox"
	default:
		return "textbox"
	}
}

func selectSize(el dom.Element) int {
	v, ok := el.Attr("size")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// gridContext reports whether the cell sits in a table whose own role
// resolves to grid or treegrid.
func gridContext(el dom.Element) bool {
	table := dom.ClosestCrossShadow(el, func(e dom.Element) bool {
		return e.Tag() == "table"
	}, nil)
	if table == nil {
		return false
	}
	// Only an explicit role can turn a <table> into a grid; its implicit
	// role is always "table". Avoids recursing through EffectiveRole.
	switch explicitRole(table) {
	case "grid", "treegrid":
		return true
	}
	return false
}

// findByID searches the element's own tree fragment for an element with the
// given id, mirroring getElementById scoping (no shadow piercing).
func findByID(from dom.Node, id string) dom.Element {
	root := dom.EnclosingShadowRootOrDocument(from)
	if root == nil {
		return nil
	}
	return findByIDIn(root, id)
}

func findByIDIn(n dom.Node, id string) dom.Element {
	for _, c := range n.ChildNodes() {
		if el, ok := c.(dom.Element); ok {
			if dom.AttrValue(el, "id") == id {
				return el
			}
		}
		if found := findByIDIn(c, id); found != nil {
			return found
		}
	}
	return nil
}
