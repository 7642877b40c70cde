package contextkey

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/siggalucci13/ContextKey/internal/headerset"
	"github.com/siggalucci13/ContextKey/internal/jsonpath"
	"github.com/siggalucci13/ContextKey/internal/ndjson"
	"github.com/siggalucci13/ContextKey/internal/template"
)

const generatePath = "/api/generate"

// envelope is the wire request derived from a config and an input.
// Built fresh per call, never persisted.
type envelope struct {
	method  string
	url     string
	headers headerset.Headers
	body    []byte
}

// generateRequest is the fixed body shape of the generative-stream
// protocol.
type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Stream bool     `json:"stream"`
	Images []string `json:"images,omitempty"`
}

func buildGenerativeEnvelope(cfg ProviderConfig, q Query) (envelope, error) {
	body, err := json.Marshal(generateRequest{
		Model:  cfg.Model,
		Prompt: q.input,
		Stream: true,
		Images: q.images,
	})
	if err != nil {
		return envelope{}, errors.Wrap(err, "could not encode generate request")
	}

	headers := headerset.Resolve(cfg.HeadersJson, cfg.AuthKey, cfg.Endpoint)
	headers = withJsonContentType(headers)

	return envelope{
		method:  http.MethodPost,
		url:     strings.TrimSuffix(cfg.Endpoint, "/") + generatePath,
		headers: headers,
		body:    body,
	}, nil
}

func buildTemplatedEnvelope(cfg ProviderConfig, q Query) envelope {
	env := envelope{
		method:  cfg.method(),
		url:     cfg.Endpoint,
		headers: headerset.Resolve(cfg.HeadersJson, cfg.AuthKey, cfg.Endpoint),
	}

	// GET requests carry no body; the template is only rendered when
	// it will be sent.
	if env.method != http.MethodGet {
		env.body = []byte(template.Render(cfg.BodyTemplate, q.input))
		env.headers = withJsonContentType(env.headers)
	}

	return env
}

// withJsonContentType adds a JSON content type unless the declared
// headers already chose one.
func withJsonContentType(headers headerset.Headers) headerset.Headers {
	if headers.Has("Content-Type") {
		return headers
	}

	return append(headers, headerset.Header{Name: "Content-Type", Value: "application/json"})
}

// send performs the HTTP exchange. The caller owns the response body.
func (ck *Adapter) send(ctx context.Context, cfg ProviderConfig, env envelope) (*http.Response, error) {
	var body io.Reader
	if env.body != nil {
		body = bytes.NewReader(env.body)
	}

	req, err := http.NewRequestWithContext(ctx, env.method, env.url, body)
	if err != nil {
		return nil, errors.WithStack(providerFailure(cfg, wrapFailure(err, FailConfigInvalid, "validate",
			"could not build request for %q", env.url)))
	}

	// Add, not Set: the resolver may keep a declared credential and an
	// injected one under the same name, and the declared value must
	// survive on the wire.
	for _, header := range env.headers {
		req.Header.Add(header.Name, header.Value)
	}

	ck.logger.Debug("dispatching provider request",
		"provider", cfg.Id,
		"transport", cfg.Transport.String(),
		"method", env.method,
		"url", env.url,
	)

	resp, err := ck.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WithStack(ctx.Err())
		}

		return nil, errors.WithStack(providerFailure(cfg, wrapFailure(err, FailTransport, "send",
			"request to %q failed: %v", env.url, err)))
	}

	return resp, nil
}

// dispatchTemplated runs the user-templated contract: render, send,
// decode a single JSON object, extract by path.
func (ck *Adapter) dispatchTemplated(ctx context.Context, cfg ProviderConfig, q Query) (string, error) {
	resp, err := ck.send(ctx, cfg, buildTemplatedEnvelope(cfg, q))
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.WithStack(ctx.Err())
		}

		return "", errors.WithStack(providerFailure(cfg, wrapFailure(err, FailTransport, "send",
			"reading response from %q failed: %v", cfg.Endpoint, err)))
	}

	answer, err := jsonpath.Extract(body, cfg.ResponsePath)
	if err != nil {
		return "", errors.WithStack(providerFailure(cfg, extractionFailure(cfg, err)))
	}

	return answer, nil
}

// dispatchStream runs the generative-stream protocol, feeding complete
// NDJSON lines through emit in receive order and returning the
// concatenated answer.
func (ck *Adapter) dispatchStream(ctx context.Context, cfg ProviderConfig, q Query, emit func(StreamRecord) error) (string, error) {
	env, err := buildGenerativeEnvelope(cfg, q)
	if err != nil {
		return "", err
	}

	resp, err := ck.send(ctx, cfg, env)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	var framer ndjson.Framer
	var answer strings.Builder

	deliver := func(records []ndjson.Record) error {
		for _, record := range records {
			answer.WriteString(record.Response)

			if err := emit(StreamRecord{Text: record.Response, Final: record.Done}); err != nil {
				return err
			}
		}

		return nil
	}

	buf := make([]byte, 4096)

	for !framer.Done() {
		n, err := resp.Body.Read(buf)

		if n > 0 {
			if err := deliver(framer.Push(buf[:n])); err != nil {
				return "", errors.WithStack(err)
			}
		}

		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			return "", errors.WithStack(ctx.Err())
		}

		if !errors.Is(err, io.EOF) {
			return "", errors.WithStack(providerFailure(cfg, wrapFailure(err, FailTransport, "stream",
				"stream from %q broke: %v", env.url, err)))
		}

		trailing, finishErr := framer.Finish()

		if err := deliver(trailing); err != nil {
			return "", errors.WithStack(err)
		}

		if finishErr != nil {
			return "", errors.WithStack(providerFailure(cfg, wrapFailure(finishErr, FailStreamAborted, "stream",
				"provider %q closed the stream before completing the answer", cfg.Endpoint)))
		}

		break
	}

	if dropped := framer.Dropped(); dropped > 0 {
		ck.logger.Debug("dropped undecodable stream lines",
			"provider", cfg.Id,
			"lines", dropped,
		)
	}

	return answer.String(), nil
}

// extractionFailure maps the extractor's error types onto the failure
// taxonomy.
func extractionFailure(cfg ProviderConfig, err error) *Failure {
	var miss *jsonpath.PathMissError
	if errors.As(err, &miss) {
		failure := wrapFailure(err, FailPathMiss, "extract",
			"configured path %q did not match the response: %s", miss.Path, miss.Reason)
		failure.AvailableKeys = miss.AvailableKeys

		return failure
	}

	var mismatch *jsonpath.TypeMismatchError
	if errors.As(err, &mismatch) {
		return wrapFailure(err, FailTypeMismatch, "extract",
			"configured path %q resolved to a %s, not text", mismatch.Path, mismatch.Got)
	}

	var arrayRoot *jsonpath.ArrayRootError
	if errors.As(err, &arrayRoot) {
		return wrapFailure(err, FailArrayRoot, "extract",
			"the response is a top-level JSON array; the configured path %q cannot address it", cfg.ResponsePath)
	}

	return wrapFailure(err, FailDecode, "decode",
		"provider %q did not return valid JSON", cfg.Endpoint)
}

func providerFailure(cfg ProviderConfig, failure *Failure) *Failure {
	failure.Provider = cfg.Id

	return failure
}
