package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/domready/internal/config"
	"github.com/xkilldash9x/domready/pkg/memdom"
)

func writeTempHTML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckOffline(t *testing.T) {
	page := writeTempHTML(t, `<html><body>
		<button id="go" class="cta primary">Go</button>
		<div id="grp" role="group" aria-disabled="true">
			<input id="field" readonly>
		</div>
		<select id="pick" multiple></select>
	</body></html>`)

	t.Run("should report structural facts for a button", func(t *testing.T) {
		out, err := runCommand(t, "check", "--html", page, "--selector", "#go")
		require.NoError(t, err)

		var report checkReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, page, report.Target)
		require.Len(t, report.Results, 1)

		facts := report.Results[0].Facts
		require.NotNil(t, facts)
		assert.Equal(t, "button", facts.Tag)
		assert.Equal(t, "button", facts.Role)
		assert.True(t, facts.Focusable)
		assert.False(t, facts.NativelyDisabled)
	})

	t.Run("should resolve inherited aria-disabled", func(t *testing.T) {
		out, err := runCommand(t, "check", "--html", page, "--selector", "#field")
		require.NoError(t, err)

		var report checkReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		require.Len(t, report.Results, 1)

		facts := report.Results[0].Facts
		require.NotNil(t, facts)
		assert.Equal(t, "textbox", facts.Role)
		assert.True(t, facts.AriaDisabled)
		assert.True(t, facts.ReadOnlyRole)
	})

	t.Run("should handle class and tag selectors", func(t *testing.T) {
		out, err := runCommand(t, "check", "--html", page, "-s", ".cta", "-s", "select")
		require.NoError(t, err)

		var report checkReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		require.Len(t, report.Results, 2)
		assert.Equal(t, "button", report.Results[0].Facts.Tag)
		assert.Equal(t, "listbox", report.Results[1].Facts.Role)
	})

	t.Run("should report a miss per selector without failing the run", func(t *testing.T) {
		out, err := runCommand(t, "check", "--html", page, "-s", "#nope", "-s", "#go")
		require.NoError(t, err)

		var report checkReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		require.Len(t, report.Results, 2)
		assert.Contains(t, report.Results[0].Error, "no element matches")
		assert.NotNil(t, report.Results[1].Facts)
	})

	t.Run("should emit a stable report shape", func(t *testing.T) {
		out, err := runCommand(t, "check", "--html", page, "--selector", "#go")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))

		want := map[string]any{
			"target": page,
			"results": []any{map[string]any{
				"selector": "#go",
				"facts": map[string]any{
					"tag":               "button",
					"role":              "button",
					"focusable":         true,
					"natively_disabled": false,
					"aria_disabled":     false,
					"readonly_role":     false,
				},
			}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Report mismatch. Diff:\n%s", diff)
		}
	})

	t.Run("should reject unsupported selector syntax in the report", func(t *testing.T) {
		out, err := runCommand(t, "check", "--html", page, "-s", "div > button")
		require.NoError(t, err)

		var report checkReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		require.Len(t, report.Results, 1)
		assert.Contains(t, report.Results[0].Error, "offline mode supports only")
	})
}

func TestCheckValidation(t *testing.T) {
	page := writeTempHTML(t, `<html><body></body></html>`)

	t.Run("should require a target", func(t *testing.T) {
		_, err := runCommand(t, "check", "--selector", "#x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of --url or --html")
	})

	t.Run("should reject both targets at once", func(t *testing.T) {
		_, err := runCommand(t, "check", "--url", "https://example.com", "--html", page, "-s", "#x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of --url or --html")
	})

	t.Run("should require a selector", func(t *testing.T) {
		_, err := runCommand(t, "check", "--html", page)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one --selector")
	})

	t.Run("should reject unknown states", func(t *testing.T) {
		_, err := runCommand(t, "check", "--html", page, "-s", "#x", "--state", "shiny")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized element state")
	})

	t.Run("should reject unknown interactions", func(t *testing.T) {
		_, err := runCommand(t, "check", "--url", "https://example.com", "-s", "#x", "--interaction", "yeet")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized interaction")
	})

	t.Run("should keep interaction checks off offline files", func(t *testing.T) {
		_, err := runCommand(t, "check", "--html", page, "-s", "#x", "--interaction", "click")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "need a live page")
	})
}

func TestRequestedStates(t *testing.T) {
	t.Run("should pass explicit states through", func(t *testing.T) {
		states := requestedStates(config.CheckConfig{States: []string{"visible", "enabled"}})
		require.Len(t, states, 2)
		assert.Equal(t, "visible", string(states[0]))
	})

	t.Run("should default to the click set without an interaction", func(t *testing.T) {
		states := requestedStates(config.CheckConfig{})
		assert.NotEmpty(t, states)
	})

	t.Run("should defer to the interaction when one is given", func(t *testing.T) {
		states := requestedStates(config.CheckConfig{Interaction: "click"})
		assert.Nil(t, states)
	})
}

func TestSimpleSelector(t *testing.T) {
	t.Run("should reject empty selectors", func(t *testing.T) {
		_, err := simpleSelector("")
		require.Error(t, err)
	})

	t.Run("should match whitespace separated classes", func(t *testing.T) {
		match, err := simpleSelector(".primary")
		require.NoError(t, err)
		assert.True(t, match(memdom.NewElement("a", "class", "cta primary")))
		assert.False(t, match(memdom.NewElement("a", "class", "primary-alt")))
	})

	t.Run("should match ids and tags", func(t *testing.T) {
		match, err := simpleSelector("#go")
		require.NoError(t, err)
		assert.True(t, match(memdom.NewElement("button", "id", "go")))

		match, err = simpleSelector("BUTTON")
		require.NoError(t, err)
		assert.True(t, match(memdom.NewElement("button")))
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestValidateCheckTimeoutPassThrough(t *testing.T) {
	cc := config.CheckConfig{
		URL:         "https://example.com",
		Selectors:   []string{"#x"},
		Interaction: "click",
		Wait:        true,
		Timeout:     3 * time.Second,
	}
	assert.NoError(t, validateCheck(cc))
}
