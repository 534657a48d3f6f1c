package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/domready/pkg/dom"
	"github.com/xkilldash9x/domready/pkg/memdom"
)

func TestIsFocusable(t *testing.T) {
	cases := []struct {
		name string
		el   *memdom.Element
		want bool
	}{
		{"button", memdom.NewElement("button"), true},
		{"select", memdom.NewElement("select"), true},
		{"textarea", memdom.NewElement("textarea"), true},
		{"details", memdom.NewElement("details"), true},
		{"anchor with href", memdom.NewElement("a", "href", "/home"), true},
		{"anchor without href", memdom.NewElement("a"), false},
		{"area with href", memdom.NewElement("area", "href", "#map"), true},
		{"text input", memdom.NewElement("input", "type", "text"), true},
		{"typeless input", memdom.NewElement("input"), true},
		{"hidden input", memdom.NewElement("input", "type", "hidden"), false},
		{"plain div", memdom.NewElement("div"), false},
		{"div with tabindex", memdom.NewElement("div", "tabindex", "2"), true},
		{"div with negative tabindex", memdom.NewElement("div", "tabindex", "-1"), true},
		{"div with fractional tabindex", memdom.NewElement("div", "tabindex", "1.5"), true},
		{"div with unparsable tabindex", memdom.NewElement("div", "tabindex", "first"), false},
		{"disabled button", memdom.NewElement("button", "disabled", ""), false},
		{"disabled button with tabindex", memdom.NewElement("button", "disabled", "", "tabindex", "0"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dom.IsFocusable(tc.el))
		})
	}
}

func TestIsNativelyDisabled(t *testing.T) {
	t.Run("should report own disabled attribute on form controls", func(t *testing.T) {
		assert.True(t, dom.IsNativelyDisabled(memdom.NewElement("input", "disabled", "")))
		assert.False(t, dom.IsNativelyDisabled(memdom.NewElement("input")))
	})

	t.Run("should ignore disabled on non form controls", func(t *testing.T) {
		assert.False(t, dom.IsNativelyDisabled(memdom.NewElement("div", "disabled", "")))
	})

	t.Run("should inherit from a disabled optgroup", func(t *testing.T) {
		group := memdom.NewElement("optgroup", "disabled", "")
		option := memdom.NewElement("option")
		memdom.Append(group, option)
		assert.True(t, dom.IsNativelyDisabled(option))
	})

	t.Run("should inherit from a disabled fieldset", func(t *testing.T) {
		fieldset := memdom.NewElement("fieldset", "disabled", "")
		input := memdom.NewElement("input")
		memdom.Append(fieldset, input)
		assert.True(t, dom.IsNativelyDisabled(input))
	})

	t.Run("should exempt controls inside the first legend child", func(t *testing.T) {
		fieldset := memdom.NewElement("fieldset", "disabled", "")
		legend := memdom.NewElement("legend")
		input := memdom.NewElement("input")
		memdom.Append(fieldset, legend)
		memdom.Append(legend, input)
		assert.False(t, dom.IsNativelyDisabled(input))
	})

	t.Run("should not exempt controls in a later legend", func(t *testing.T) {
		fieldset := memdom.NewElement("fieldset", "disabled", "")
		first := memdom.NewElement("legend")
		second := memdom.NewElement("legend")
		input := memdom.NewElement("input")
		memdom.Append(fieldset, first)
		memdom.Append(fieldset, second)
		memdom.Append(second, input)
		assert.True(t, dom.IsNativelyDisabled(input))
	})

	t.Run("should still apply an outer disabled fieldset to legend content", func(t *testing.T) {
		outer := memdom.NewElement("fieldset", "disabled", "")
		inner := memdom.NewElement("fieldset", "disabled", "")
		legend := memdom.NewElement("legend")
		input := memdom.NewElement("input")
		memdom.Append(outer, inner)
		memdom.Append(inner, legend)
		memdom.Append(legend, input)

		// The inner fieldset's legend exempts the input, the outer one does
		// not.
		assert.True(t, dom.IsNativelyDisabled(input))
	})
}
