package aria

import (
	"strings"

	"github.com/xkilldash9x/domready/pkg/dom"
)

// HasExplicitAriaDisabled reports whether the element is explicitly
// aria-disabled: its aria-disabled attribute is "true" (case-insensitive)
// and its resolved role supports aria-disabled.
//
// With includeAncestors, disabled state is inherited: the walk crosses
// shadow boundaries upward and stops at the first ancestor that carries an
// explicit aria-disabled of either polarity on a disabled-supporting role.
// An explicit "false" blocks inheritance from more distant ancestors.
func HasExplicitAriaDisabled(el dom.Element, includeAncestors bool) bool {
	for cur := el; cur != nil; cur = dom.ParentElementOrShadowHost(cur) {
		if v, ok := cur.Attr("aria-disabled"); ok && disabledRoles[EffectiveRole(cur)] {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true":
				return true
			case "false":
				return false
			}
			// Any other value is not an explicit setting; keep walking.
		}
		if !includeAncestors {
			return false
		}
	}
	return false
}

// IsReadOnlyRole reports whether the element's effective role supports
// aria-readonly.
func IsReadOnlyRole(el dom.Element) bool {
	return readOnlyRoles[EffectiveRole(el)]
}

// HasAriaReadOnly reports whether the element explicitly declares
// aria-readonly="true" on a role that supports it.
func HasAriaReadOnly(el dom.Element) bool {
	if !IsReadOnlyRole(el) {
		return false
	}
	v, ok := el.Attr("aria-readonly")
	return ok && strings.EqualFold(strings.TrimSpace(v), "true")
}
