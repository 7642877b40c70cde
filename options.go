package contextkey

import (
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Option configures an Adapter at construction time.
type Option func(*Adapter) error

// WithHttpClient replaces the HTTP client used for all provider calls.
func WithHttpClient(client *http.Client) Option {
	return func(ck *Adapter) error {
		ck.httpClient = client

		return nil
	}
}

// WithLogger sets the structured logger. The adapter logs request
// summaries and dropped stream lines at debug level; auth keys are
// never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(ck *Adapter) error {
		ck.logger = logger

		return nil
	}
}

// WithRegistry wires in a registry owned by the composition root,
// shared with the configuration UI.
func WithRegistry(registry *Registry) Option {
	return func(ck *Adapter) error {
		ck.registry = registry

		return nil
	}
}

// WithProviders registers configs into the adapter's registry. The
// first one becomes active.
func WithProviders(configs ...ProviderConfig) Option {
	return func(ck *Adapter) error {
		if ck.registry == nil {
			ck.registry = NewRegistry()
		}

		for idx, cfg := range configs {
			added, err := ck.registry.Add(cfg)
			if err != nil {
				return errors.Wrapf(err, "could not register provider '%s'", cfg.Id)
			}

			if idx == 0 {
				if err := ck.registry.SetActive(added.Id); err != nil {
					return err
				}
			}
		}

		return nil
	}
}
