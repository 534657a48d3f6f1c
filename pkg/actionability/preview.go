package actionability

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// NodePreviewer renders a node for diagnostics. The engine only ever uses
// it to describe elements in error messages; callers may plug in a richer
// formatter.
type NodePreviewer interface {
	Preview(n dom.Node) string
}

// defaultPreviewer renders a terse CSS-like description: tag#id.class.
type defaultPreviewer struct{}

func (defaultPreviewer) Preview(n dom.Node) string {
	switch t := n.(type) {
	case nil:
		return "<nil>"
	case dom.Element:
		var sb strings.Builder
		sb.WriteString("<")
		sb.WriteString(t.Tag())
		if id := dom.AttrValue(t, "id"); id != "" {
			sb.WriteString("#" + id)
		}
		if cls := dom.AttrValue(t, "class"); cls != "" {
			sb.WriteString("." + strings.Join(strings.Fields(cls), "."))
		}
		sb.WriteString(">")
		return sb.String()
	case dom.Root:
		if host := t.Host(); host != nil {
			return fmt.Sprintf("#shadow-root(%s)", defaultPreviewer{}.Preview(host))
		}
		return "#document"
	case dom.Text:
		data := t.Data()
		if runes := []rune(data); len(runes) > 40 {
			data = string(runes[:37]) + "..."
		}
		return fmt.Sprintf("#text %q", data)
	default:
		return "#node"
	}
}
