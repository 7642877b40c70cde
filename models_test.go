package contextkey

import (
	"context"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListModels(t *testing.T) {
	defer gock.Off()

	cfg := ProviderConfig{
		Id:        "local",
		Transport: TransportGenerativeStream,
		Endpoint:  "http://localhost:11434",
		Model:     "llama3",
	}

	ck, err := New()
	require.NoError(t, err)

	gock.New("http://localhost:11434").
		Get("/api/tags").
		Reply(http.StatusOK).
		JSON(map[string]any{"models": []any{
			map[string]any{"name": "llama3", "size": 4661224676},
			map[string]any{"name": "mistral", "digest": "abc"},
		}})

	models, err := ck.ListModels(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "mistral"}, models)
}

func TestListModelsInvalidBody(t *testing.T) {
	defer gock.Off()

	cfg := ProviderConfig{
		Transport: TransportGenerativeStream,
		Endpoint:  "http://localhost:11434",
		Model:     "llama3",
	}

	ck, err := New()
	require.NoError(t, err)

	gock.New("http://localhost:11434").
		Get("/api/tags").
		Reply(http.StatusOK).
		BodyString("<!doctype html>")

	_, err = ck.ListModels(context.Background(), cfg)

	assert.True(t, IsKind(err, FailDecode), "got %v", err)
}

func TestListModelsMissingEndpoint(t *testing.T) {
	ck, err := New()
	require.NoError(t, err)

	_, err = ck.ListModels(context.Background(), ProviderConfig{})

	assert.True(t, IsKind(err, FailConfigInvalid))
}
