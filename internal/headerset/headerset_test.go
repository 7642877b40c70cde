package headerset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveGoogleEndpoint(t *testing.T) {
	headers := Resolve("", "abc", "https://generativelanguage.googleapis.com/v1beta/models")

	assert.Equal(t, Headers{{Name: "x-goog-api-key", Value: "abc"}}, headers)
}

func TestResolveBearerFallback(t *testing.T) {
	headers := Resolve("", "abc", "https://api.example.com")

	assert.Equal(t, Headers{{Name: "Authorization", Value: "Bearer abc"}}, headers)
}

func TestResolveDeclaredCredentialWins(t *testing.T) {
	headers := Resolve(`{"Authorization": "Bearer abc"}`, "abc", "https://api.example.com")

	assert.Len(t, headers, 1)
	assert.Equal(t, Headers{{Name: "Authorization", Value: "Bearer abc"}}, headers)
}

func TestResolveCaseInsensitiveCredentialDetection(t *testing.T) {
	headers := Resolve(`{"X-GOOG-API-KEY": "abc"}`, "abc", "https://generativelanguage.googleapis.com")

	assert.Len(t, headers, 1)

	headers = Resolve(`{"authorization": "token abc trailer"}`, "abc", "https://api.example.com")

	assert.Len(t, headers, 1)
}

func TestResolveForeignAuthorizationStillInjects(t *testing.T) {
	// An authorization header holding some other credential does not
	// count as ours.
	headers := Resolve(`{"Authorization": "Bearer other"}`, "abc", "https://api.example.com")

	assert.Len(t, headers, 2)

	value, ok := headers.Get("authorization")

	assert.True(t, ok)
	assert.Equal(t, "Bearer other", value)
	assert.Equal(t, Header{Name: "Authorization", Value: "Bearer abc"}, headers[1])
}

func TestResolveMalformedDeclaredHeaders(t *testing.T) {
	for _, declared := range []string{
		`{not json}`,
		`["a", "b"]`,
		`{"nested": {"x": 1}}`,
		`{"count": 3}`,
		`"just a string"`,
	} {
		headers := Resolve(declared, "abc", "https://api.example.com")

		assert.Equal(t, Headers{{Name: "Authorization", Value: "Bearer abc"}}, headers, "declared %q", declared)
	}
}

func TestResolveNoAuthKey(t *testing.T) {
	headers := Resolve(`{"X-Custom": "1"}`, "", "https://api.example.com")

	assert.Equal(t, Headers{{Name: "X-Custom", Value: "1"}}, headers)
}

func TestDeclaredOrderPreserved(t *testing.T) {
	headers := Resolve(`{"B-Second": "2", "A-First": "1", "C-Third": "3"}`, "", "")

	assert.Equal(t, Headers{
		{Name: "B-Second", Value: "2"},
		{Name: "A-First", Value: "1"},
		{Name: "C-Third", Value: "3"},
	}, headers)
}
