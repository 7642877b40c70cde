package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesMarker(t *testing.T) {
	out := Render(`{"prompt": "{{input}}"}`, "hello")

	assert.Equal(t, `{"prompt": "hello"}`, out)
}

func TestRenderReplacesEveryMarker(t *testing.T) {
	out := Render(`{"q": "{{input}}", "echo": "{{input}}"}`, `say "hi"`)

	assert.Equal(t, `{"q": "say \"hi\"", "echo": "say \"hi\""}`, out)
}

func TestRenderWithoutMarker(t *testing.T) {
	tmpl := `{"prompt": "static"}`

	assert.Equal(t, tmpl, Render(tmpl, "ignored"))
}

func TestEscapeRoundTrip(t *testing.T) {
	inputs := []string{
		`plain`,
		`back\slash`,
		`quo"te`,
		"new\nline",
		"carriage\rreturn",
		"tab\there",
		"all\\of\"them\n\r\t",
		`already \" escaped`,
		`\\"`,
		"",
	}

	for _, in := range inputs {
		rendered := Render(`"{{input}}"`, in)

		var decoded string
		require.NoError(t, json.Unmarshal([]byte(rendered), &decoded), "rendered literal must stay valid JSON: %q", rendered)
		assert.Equal(t, in, decoded)
	}
}

func TestEscapeOrderBackslashFirst(t *testing.T) {
	// A lone quote becomes `\"`. If the backslash rule ran afterwards,
	// the introduced backslash would be doubled into `\\"`.
	assert.Equal(t, `\"`, Escape(`"`))
	assert.Equal(t, `\\\"`, Escape(`\"`))
}
