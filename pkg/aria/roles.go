// Package aria resolves the effective ARIA role of an element and the
// explicit disabled / read-only semantics the actionability engine needs.
// It intentionally stops far short of a full accessibility tree.
package aria

import (
	"strings"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// validRoles is the fixed vocabulary of recognized ARIA role tokens. Tokens
// outside this set are skipped in favor of the next token or the implicit
// role.
var validRoles = map[string]bool{
	"alert": true, "alertdialog": true, "application": true, "article": true,
	"banner": true, "blockquote": true, "button": true, "caption": true,
	"cell": true, "checkbox": true, "code": true, "columnheader": true,
	"combobox": true, "complementary": true, "contentinfo": true,
	"definition": true, "deletion": true, "dialog": true, "directory": true,
	"document": true, "emphasis": true, "feed": true, "figure": true,
	"form": true, "generic": true, "grid": true, "gridcell": true,
	"group": true, "heading": true, "img": true, "insertion": true,
	"link": true, "list": true, "listbox": true, "listitem": true,
	"log": true, "main": true, "marquee": true, "math": true, "menu": true,
	"menubar": true, "menuitem": true, "menuitemcheckbox": true,
	"menuitemradio": true, "meter": true, "navigation": true, "none": true,
	"note": true, "option": true, "paragraph": true, "presentation": true,
	"progressbar": true, "radio": true, "radiogroup": true, "region": true,
	"row": true, "rowgroup": true, "rowheader": true, "scrollbar": true,
	"search": true, "searchbox": true, "separator": true, "slider": true,
	"spinbutton": true, "status": true, "strong": true, "subscript": true,
	"superscript": true, "switch": true, "tab": true, "table": true,
	"tablist": true, "tabpanel": true, "term": true, "textbox": true,
	"time": true, "timer": true, "toolbar": true, "tooltip": true,
	"tree": true, "treegrid": true, "treeitem": true,
}

// disabledRoles is the fixed set of roles that support aria-disabled.
var disabledRoles = map[string]bool{
	"application": true, "button": true, "checkbox": true,
	"columnheader": true, "combobox": true, "composite": true, "grid": true,
	"gridcell": true, "group": true, "input": true, "link": true,
	"listbox": true, "menu": true, "menubar": true, "menuitem": true,
	"menuitemcheckbox": true, "menuitemradio": true, "option": true,
	"radio": true, "radiogroup": true, "row": true, "rowheader": true,
	"scrollbar": true, "searchbox": true, "select": true, "separator": true,
	"slider": true, "spinbutton": true, "switch": true, "tab": true,
	"tablist": true, "textbox": true, "toolbar": true, "tree": true,
	"treegrid": true, "treeitem": true,
}

// readOnlyRoles is the fixed set of roles that support aria-readonly.
var readOnlyRoles = map[string]bool{
	"checkbox": true, "columnheader": true, "combobox": true, "grid": true,
	"gridcell": true, "listbox": true, "radiogroup": true, "rowheader": true,
	"searchbox": true, "slider": true, "spinbutton": true, "switch": true,
	"textbox": true, "treegrid": true,
}

// globalAriaAttributes are the attributes whose presence makes an explicit
// presentation/none role invalid on the carrying element.
var globalAriaAttributes = []string{
	"aria-atomic", "aria-busy", "aria-controls", "aria-current",
	"aria-describedby", "aria-details", "aria-dropeffect",
	"aria-errormessage", "aria-flowto", "aria-grabbed", "aria-haspopup",
	"aria-hidden", "aria-invalid", "aria-keyshortcuts", "aria-label",
	"aria-labelledby", "aria-live", "aria-owns", "aria-relevant",
	"aria-roledescription",
}

// presentationalChildren maps a child's implicit role to the parent tags it
// may inherit a presentation role from.
var presentationalChildren = map[string][]string{
	"listitem":     {"ul", "ol", "menu"},
	"term":         {"dl"},
	"definition":   {"dl"},
	"row":          {"table", "tbody", "thead", "tfoot"},
	"rowgroup":     {"table"},
	"cell":         {"tr"},
	"gridcell":     {"tr"},
	"columnheader": {"tr"},
	"rowheader":    {"tr"},
}

// explicitRole returns the first valid token of the role attribute, or "".
func explicitRole(el dom.Element) string {
	v, ok := el.Attr("role")
	if !ok {
		return ""
	}
	for _, token := range strings.Fields(strings.ToLower(v)) {
		if validRoles[token] {
			return token
		}
	}
	return ""
}

func hasGlobalAriaAttribute(el dom.Element) bool {
	for _, name := range globalAriaAttributes {
		if dom.HasAttr(el, name) {
			return true
		}
	}
	return false
}

// EffectiveRole resolves the element's role: the explicit role attribute
// when valid, otherwise the implicit role derived from tag name, input type
// and contextual attributes. Presentation conflict resolution and
// presentation inheritance from the fixed parent/child tag pairs are
// applied.
func EffectiveRole(el dom.Element) string {
	if el == nil {
		return ""
	}
	if role := explicitRole(el); role != "" {
		if role == "presentation" || role == "none" {
			// A global ARIA attribute or focusability overrides the
			// presentational role and reverts to the implicit one.
			if hasGlobalAriaAttribute(el) || dom.IsFocusable(el) {
				return implicitRole(el)
			}
			return "presentation"
		}
		return role
	}
	role := implicitRole(el)
	if parents, ok := presentationalChildren[role]; ok && inheritsPresentation(el, parents) {
		return "presentation"
	}
	return role
}

// inheritsPresentation reports whether the element picks up a presentation
// role from a matching presentational ancestor. The inherited role must not
// conflict: an element with global ARIA attributes or focus keeps its role.
func inheritsPresentation(el dom.Element, parentTags []string) bool {
	if hasGlobalAriaAttribute(el) || dom.IsFocusable(el) {
		return false
	}
	parent := dom.ParentElementOrShadowHost(el)
	if parent == nil {
		return false
	}
	for _, tag := range parentTags {
		if parent.Tag() == tag && EffectiveRole(parent) == "presentation" {
			return true
		}
	}
	return false
}
