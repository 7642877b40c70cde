// Package jsonpath evaluates the dot/bracket-index path language used to
// pull an answer string out of an arbitrary provider response.
//
// A path like `choices[0].message.content` is split on dots; each
// segment names an object key, optionally followed by exactly one array
// index. This is deliberately not a general JSONPath implementation.
package jsonpath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var segmentRe = regexp.MustCompile(`^([^\[\]]+)\[([0-9]+)\]$`)

// DecodeError reports a response body that is not valid JSON.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("response body is not valid JSON: %v", e.cause)
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// ArrayRootError reports a response whose top-level value is a JSON
// array, which the path syntax cannot address.
type ArrayRootError struct{}

func (e *ArrayRootError) Error() string {
	return "response is a top-level JSON array, which the response path syntax does not support; wrap the path for an object root"
}

// PathMissError reports a path that does not resolve against the actual
// response shape. AvailableKeys lists the keys present at the last level
// that was navigated successfully, for the caller's diagnostic message.
type PathMissError struct {
	Path          string
	Segment       string
	Reason        string
	AvailableKeys []string
}

func (e *PathMissError) Error() string {
	msg := fmt.Sprintf("path %q does not resolve at %q: %s", e.Path, e.Segment, e.Reason)

	if len(e.AvailableKeys) > 0 {
		msg += fmt.Sprintf(" (available keys: %s)", strings.Join(e.AvailableKeys, ", "))
	}

	return msg
}

// TypeMismatchError reports a path that resolved to a value that cannot
// be coerced to an answer string.
type TypeMismatchError struct {
	Path string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("path %q resolved to a %s, expected a string, number or boolean", e.Path, e.Got)
}

// Extract decodes data and evaluates path against it, returning the
// terminal value coerced to a string.
func Extract(data []byte, path string) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return "", &DecodeError{cause: err}
	}

	if _, ok := root.([]any); ok {
		return "", &ArrayRootError{}
	}

	current := root

	for _, segment := range strings.Split(path, ".") {
		key, index, hasIndex, err := parseSegment(path, segment, current)
		if err != nil {
			return "", err
		}

		obj, ok := current.(map[string]any)
		if !ok {
			return "", missAt(path, segment, "value is not an object", current)
		}

		next, ok := obj[key]
		if !ok {
			return "", missAt(path, segment, fmt.Sprintf("key %q not found", key), current)
		}

		if hasIndex {
			arr, ok := next.([]any)
			if !ok {
				return "", missAt(path, segment, fmt.Sprintf("key %q is not an array", key), current)
			}

			if index >= len(arr) {
				return "", missAt(path, segment, fmt.Sprintf("index %d out of range (%d elements)", index, len(arr)), current)
			}

			next = arr[index]
		}

		current = next
	}

	return coerce(path, current)
}

func parseSegment(path, segment string, current any) (key string, index int, hasIndex bool, err error) {
	if segment == "" {
		return "", 0, false, missAt(path, segment, "empty path segment", current)
	}

	if !strings.ContainsAny(segment, "[]") {
		return segment, 0, false, nil
	}

	m := segmentRe.FindStringSubmatch(segment)
	if m == nil {
		return "", 0, false, missAt(path, segment, "malformed index, expected key[n] with a non-negative integer", current)
	}

	index, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false, missAt(path, segment, "malformed index, expected key[n] with a non-negative integer", current)
	}

	return m[1], index, true, nil
}

func missAt(path, segment, reason string, current any) *PathMissError {
	miss := &PathMissError{
		Path:    path,
		Segment: segment,
		Reason:  reason,
	}

	if obj, ok := current.(map[string]any); ok {
		miss.AvailableKeys = make([]string, 0, len(obj))

		for key := range obj {
			miss.AvailableKeys = append(miss.AvailableKeys, key)
		}

		sort.Strings(miss.AvailableKeys)
	}

	return miss
}

func coerce(path string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil

	case json.Number:
		return canonicalNumber(v), nil

	case bool:
		if v {
			return "true", nil
		}

		return "false", nil

	case map[string]any:
		return "", &TypeMismatchError{Path: path, Got: "object"}

	case []any:
		return "", &TypeMismatchError{Path: path, Got: "array"}

	default:
		return "", &TypeMismatchError{Path: path, Got: "null"}
	}
}

// canonicalNumber rewrites exponent-form literals into plain decimal
// notation; everything else already is the canonical representation.
func canonicalNumber(n json.Number) string {
	literal := n.String()

	if !strings.ContainsAny(literal, "eE") {
		return literal
	}

	f, err := n.Float64()
	if err != nil {
		return literal
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
