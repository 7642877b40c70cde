// Package contextkey is the provider-agnostic request/response adapter
// behind the ContextKey capture utility. It turns a user-configured
// provider description into an outbound HTTP request, speaks either the
// fixed-shape streaming generate protocol or a fully user-templated
// contract, and extracts a single text answer from whatever shape the
// backend returns.
//
// The surrounding application (windows, hotkeys, clipboard capture,
// history) stays outside: it assembles the combined input string, hands
// over a ProviderConfig snapshot, and receives either incremental
// stream records plus a final text, or a single tagged failure.
package contextkey

import (
	"io"
	"log/slog"
	"net/http"
)

// Adapter is the entrypoint for dispatching queries against configured
// providers.
//
// Example usage:
//
//	ck, err := contextkey.New(
//		contextkey.WithRegistry(registry),
//	)
//	answer, err := contextkey.NewQuery("What is this function doing?").
//		Do(ctx, ck)
type Adapter struct {
	registry   *Registry
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an Adapter with the given options. Without a registry
// option an empty registry is created; without a client option
// http.DefaultClient is used, deferring timeouts to the transport.
func New(opts ...Option) (*Adapter, error) {
	ck := Adapter{
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		if err := opt(&ck); err != nil {
			return nil, err
		}
	}

	if ck.registry == nil {
		ck.registry = NewRegistry()
	}

	return &ck, nil
}

// Registry returns the configuration registry this adapter reads from.
func (ck *Adapter) Registry() *Registry {
	return ck.registry
}

func (ck *Adapter) HttpClient() *http.Client {
	return ck.httpClient
}

func (ck *Adapter) Logger() *slog.Logger {
	return ck.logger
}
