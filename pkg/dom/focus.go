package dom

import (
	"strconv"
	"strings"
)

// Native HTML focus and disabled semantics that the platform does not expose
// as simple booleans.

var nativelyFocusableTags = map[string]bool{
	"button":   true,
	"details":  true,
	"select":   true,
	"textarea": true,
}

var formControlTags = map[string]bool{
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"option":   true,
	"optgroup": true,
}

// IsFocusable reports whether the element can take focus natively: it is not
// disabled and is either one of the natively focusable tag/attribute
// combinations or carries a parsable tab-index attribute.
func IsFocusable(el Element) bool {
	if el == nil || IsNativelyDisabled(el) {
		return false
	}
	switch tag := el.Tag(); {
	case nativelyFocusableTags[tag]:
		return true
	case tag == "a" || tag == "area":
		if HasAttr(el, "href") {
			return true
		}
	case tag == "input":
		if AttrValue(el, "type") != "hidden" {
			return true
		}
	}
	if v, ok := el.Attr("tabindex"); ok {
		// Negative and fractional-but-numeric values still make the element
		// focusable; only unparsable strings do not.
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return true
		}
	}
	return false
}

// IsNativelyDisabled reports whether a form control is disabled by HTML
// semantics: its own disabled attribute, a disabled enclosing optgroup, or a
// disabled enclosing fieldset. Controls inside the fieldset's first direct
// legend child are exempt from that fieldset's disabled state.
func IsNativelyDisabled(el Element) bool {
	if el == nil || !formControlTags[el.Tag()] {
		return false
	}
	if HasAttr(el, "disabled") {
		return true
	}
	for anc := ParentElementOrShadowHost(el); anc != nil; anc = ParentElementOrShadowHost(anc) {
		if !HasAttr(anc, "disabled") {
			continue
		}
		switch anc.Tag() {
		case "optgroup":
			return true
		case "fieldset":
			if legend := firstLegendChild(anc); legend == nil || !Contains(legend, el) {
				return true
			}
			// Inside the exempting legend; outer fieldsets still apply.
		}
	}
	return false
}

// firstLegendChild returns the first direct child element of a fieldset that
// is a legend, or nil.
func firstLegendChild(fieldset Element) Element {
	for _, c := range fieldset.ChildNodes() {
		child, ok := c.(Element)
		if !ok {
			continue
		}
		if child.Tag() == "legend" {
			return child
		}
	}
	return nil
}
