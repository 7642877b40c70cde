// Package headerset builds the outbound header set for a provider call.
//
// Headers keep their declaration order and compare names
// case-insensitively, so a user-declared `Authorization` header is seen
// by the auth-injection heuristic regardless of capitalization.
package headerset

import (
	"bytes"
	"encoding/json"
	"strings"
)

const googleHost = "googleapis.com"

// Header is a single name/value pair.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header set. Lookups are case-insensitive on the
// name; order is the order headers were declared or injected.
type Headers []Header

// Get returns the value of the first header with the given name.
func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if strings.EqualFold(header.Name, name) {
			return header.Value, true
		}
	}

	return "", false
}

// Has reports whether a header with the given name is present.
func (h Headers) Has(name string) bool {
	_, ok := h.Get(name)

	return ok
}

// Resolve merges user-declared headers with the auth-injection
// heuristic.
//
// declaredJSON is a flat JSON object of string values; anything else
// (bad JSON, nested values, non-string values) degrades to an empty
// declared set rather than failing the call. Declared headers always
// win: injection only adds a credential when none is detectable.
//
// A credential counts as already present when an `x-goog-api-key`
// header exists, or an `authorization` header whose value contains
// authKey. Otherwise a non-empty authKey is injected as
// `x-goog-api-key` for googleapis.com endpoints and as a bearer
// `authorization` header for everything else. The endpoint match is a
// deliberate substring heuristic; broadening it risks double-injecting
// credentials for providers with other conventions.
func Resolve(declaredJSON, authKey, endpoint string) Headers {
	headers := parseDeclared(declaredJSON)

	if authKey == "" || hasCredential(headers, authKey) {
		return headers
	}

	if strings.Contains(endpoint, googleHost) {
		return append(headers, Header{Name: "x-goog-api-key", Value: authKey})
	}

	return append(headers, Header{Name: "Authorization", Value: "Bearer " + authKey})
}

func hasCredential(headers Headers, authKey string) bool {
	if headers.Has("x-goog-api-key") {
		return true
	}

	if auth, ok := headers.Get("Authorization"); ok {
		return strings.Contains(auth, authKey)
	}

	return false
}

// parseDeclared decodes a flat string-to-string JSON object while
// preserving key order, which a plain map unmarshal would lose.
func parseDeclared(declaredJSON string) Headers {
	if strings.TrimSpace(declaredJSON) == "" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(declaredJSON)))

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var headers Headers

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil
		}

		headers = append(headers, Header{Name: key, Value: value})
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil
	}

	return headers
}
