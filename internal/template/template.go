// Package template renders user-authored request-body templates.
//
// A template is an arbitrary string, usually a JSON document, containing
// the `{{input}}` marker wherever the user's combined input should be
// substituted. The input is escaped so that it is safe to embed inside a
// JSON string literal in the surrounding template.
package template

import "strings"

// Marker is the substitution token recognized in body templates.
const Marker = "{{input}}"

// escapes are applied in order. Backslash must come first: every later
// rule introduces backslashes, and running the backslash rule after any
// of them would double-escape its output.
var escapes = [][2]string{
	{`\`, `\\`},
	{`"`, `\"`},
	{"\n", `\n`},
	{"\r", `\r`},
	{"\t", `\t`},
}

// Escape returns input rewritten so that it can appear verbatim between
// the quotes of a JSON string literal.
func Escape(input string) string {
	for _, e := range escapes {
		input = strings.ReplaceAll(input, e[0], e[1])
	}

	return input
}

// Render substitutes every occurrence of Marker in tmpl with the escaped
// input. A template without any marker is returned unchanged: that is an
// authoring mistake, not a rendering failure. The template itself is
// never escaped.
func Render(tmpl, input string) string {
	if !strings.Contains(tmpl, Marker) {
		return tmpl
	}

	return strings.ReplaceAll(tmpl, Marker, Escape(input))
}
