package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/domready/pkg/dom"
	"github.com/xkilldash9x/domready/pkg/memdom"
)

// buildShadowPage assembles:
//
//	#document > body > div#host
//	  #shadow-root > section > button#inner
func buildShadowPage(t *testing.T) (doc *memdom.Document, host, inner *memdom.Element) {
	t.Helper()
	doc = memdom.NewDocument()
	body := memdom.NewElement("body")
	host = memdom.NewElement("div", "id", "host")
	memdom.Append(doc, body)
	memdom.Append(body, host)

	shadow := host.AttachShadow()
	section := memdom.NewElement("section")
	inner = memdom.NewElement("button", "id", "inner")
	memdom.Append(shadow, section)
	memdom.Append(section, inner)
	return doc, host, inner
}

func TestParentElementOrShadowHost(t *testing.T) {
	_, host, inner := buildShadowPage(t)

	t.Run("should walk within a tree fragment", func(t *testing.T) {
		section := inner.ParentNode().(dom.Element)
		assert.Equal(t, "section", section.Tag())
	})

	t.Run("should cross from shadow root to host", func(t *testing.T) {
		section := dom.ParentElementOrShadowHost(inner)
		require.NotNil(t, section)
		got := dom.ParentElementOrShadowHost(section)
		assert.Equal(t, dom.Element(host), got)
	})

	t.Run("should stop at the document", func(t *testing.T) {
		body := dom.ParentElementOrShadowHost(host)
		require.NotNil(t, body)
		assert.Equal(t, "body", body.Tag())
		assert.Nil(t, dom.ParentElementOrShadowHost(body))
	})
}

func TestEnclosingRoots(t *testing.T) {
	doc, host, inner := buildShadowPage(t)

	t.Run("should find the shadow root of a shadow child", func(t *testing.T) {
		root := dom.EnclosingShadowRootOrDocument(inner)
		require.NotNil(t, root)
		assert.Equal(t, dom.KindShadowRoot, root.Kind())
		assert.Equal(t, dom.Element(host), root.Host())
	})

	t.Run("should find the document for light children", func(t *testing.T) {
		root := dom.EnclosingShadowRootOrDocument(host)
		require.NotNil(t, root)
		assert.Equal(t, dom.KindDocument, root.Kind())
	})

	t.Run("should resolve the enclosing host", func(t *testing.T) {
		assert.Equal(t, dom.Element(host), dom.EnclosingShadowHost(inner))
		assert.Nil(t, dom.EnclosingShadowHost(host))
	})

	t.Run("should follow host edges to the top document", func(t *testing.T) {
		top := dom.TopDocument(inner)
		require.NotNil(t, top)
		assert.Equal(t, dom.Root(doc), top)
	})
}

func TestIsConnected(t *testing.T) {
	_, host, inner := buildShadowPage(t)

	assert.True(t, dom.IsConnected(host))
	assert.True(t, dom.IsConnected(inner), "shadow children connect through their host")

	detached := memdom.NewElement("div")
	assert.False(t, dom.IsConnected(detached))

	memdom.Detach(inner)
	assert.False(t, dom.IsConnected(inner))
}

func TestContains(t *testing.T) {
	_, host, inner := buildShadowPage(t)

	assert.True(t, dom.Contains(host, inner), "containment crosses shadow boundaries")
	assert.True(t, dom.Contains(inner, inner), "a node contains itself")
	assert.False(t, dom.Contains(inner, host))

	stranger := memdom.NewElement("div")
	assert.False(t, dom.Contains(host, stranger))
}

func TestClosestCrossShadow(t *testing.T) {
	_, host, inner := buildShadowPage(t)
	body := dom.ParentElementOrShadowHost(host)
	require.NotNil(t, body)

	t.Run("should match the element itself", func(t *testing.T) {
		got := dom.ClosestCrossShadow(inner, func(e dom.Element) bool {
			return e.Tag() == "button"
		}, nil)
		assert.Equal(t, dom.Element(inner), got)
	})

	t.Run("should cross the shadow boundary on the way up", func(t *testing.T) {
		got := dom.ClosestCrossShadow(inner, func(e dom.Element) bool {
			return e.Tag() == "body"
		}, nil)
		assert.Equal(t, body, got)
	})

	t.Run("should return nil when the match lies outside the scope", func(t *testing.T) {
		got := dom.ClosestCrossShadow(inner, func(e dom.Element) bool {
			return e.Tag() == "body"
		}, host)
		assert.Nil(t, got)
	})

	t.Run("should return nil without a match", func(t *testing.T) {
		got := dom.ClosestCrossShadow(inner, func(e dom.Element) bool {
			return e.Tag() == "article"
		}, nil)
		assert.Nil(t, got)
	})
}
