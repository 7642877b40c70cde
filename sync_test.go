package contextkey

import (
	"context"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	defer gock.Off()

	ck := newTestAdapter(t, templatedConfig())

	gock.New("https://api.example.com").
		Post("/v1/chat").
		Times(2).
		Reply(http.StatusOK).
		JSON(map[string]any{"choices": []any{map[string]any{"message": map[string]any{"content": "answer"}}}})

	answers := All(context.Background(), ck, NewQuery("one"), NewQuery("two"))

	require.Len(t, answers, 2)

	for _, answer := range answers {
		assert.NoError(t, answer.Error)
		assert.Equal(t, "answer", answer.Text)
	}
}

func TestRaceAllFail(t *testing.T) {
	defer gock.Off()

	ck := newTestAdapter(t, templatedConfig())

	gock.New("https://api.example.com").
		Post("/v1/chat").
		Times(2).
		Reply(http.StatusOK).
		BodyString("not json")

	answer := Race(context.Background(), ck, NewQuery("one"), NewQuery("two"))

	assert.ErrorContains(t, answer.Error, "all queries failed")
}

func TestRaceNoQueries(t *testing.T) {
	ck, err := New()
	require.NoError(t, err)

	answer := Race(context.Background(), ck)

	assert.ErrorContains(t, answer.Error, "no queries to race")
}
