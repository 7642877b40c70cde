package contextkey

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/siggalucci13/ContextKey/internal/headerset"
)

const tagsPath = "/api/tags"

// ListModels asks a generative-stream backend which models it serves,
// for the configuration UI's model picker. Only the `name` field of
// each entry is extracted; the rest of the tag schema is the backend's
// business.
func (ck *Adapter) ListModels(ctx context.Context, cfg ProviderConfig) ([]string, error) {
	if cfg.Endpoint == "" {
		return nil, validationFailure(cfg, "endpoint is required")
	}

	env := envelope{
		method:  http.MethodGet,
		url:     strings.TrimSuffix(cfg.Endpoint, "/") + tagsPath,
		headers: headerset.Resolve(cfg.HeadersJson, cfg.AuthKey, cfg.Endpoint),
	}

	resp, err := ck.send(ctx, cfg, env)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithStack(providerFailure(cfg, wrapFailure(err, FailTransport, "send",
			"reading model list from %q failed: %v", cfg.Endpoint, err)))
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.WithStack(providerFailure(cfg, newFailure(FailDecode, "decode",
			"provider %q returned an invalid model list", cfg.Endpoint)))
	}

	names := gjson.GetBytes(body, "models.#.name").Array()

	return lo.Map(names, func(name gjson.Result, _ int) string {
		return name.String()
	}), nil
}
