package contextkey

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Query is a single outbound question, built by chained calls on a
// value receiver so partially-built queries can be reused safely.
//
// Example usage:
//
//	answer, err := contextkey.NewQuery(input).
//		WithProvider(providerId).
//		Do(ctx, ck)
type Query struct {
	input      string
	providerId string
	images     []string
	onRecord   func(StreamRecord)
}

// NewQuery starts a query from the combined input string the caller
// assembled (context + history + question).
func NewQuery(input string) Query {
	return Query{input: input}
}

// WithProvider targets a specific registered provider instead of the
// registry's active one.
func (q Query) WithProvider(id string) Query {
	q.providerId = id

	return q
}

// WithImages attaches base64-encoded image payloads. Only the
// generative-stream transport carries them, under the request's
// `images` field.
func (q Query) WithImages(images ...string) Query {
	q.images = append(q.images, images...)

	return q
}

// OnRecord registers a callback invoked once per stream record, in
// order, before Do returns the final text. Only meaningful for the
// generative-stream transport.
func (q Query) OnRecord(fn func(StreamRecord)) Query {
	q.onRecord = fn

	return q
}

// Do dispatches the query and blocks until the terminal result: the
// final answer text, or a tagged Failure. For streaming providers any
// OnRecord callback fires for each fragment first.
func (q Query) Do(ctx context.Context, ck *Adapter) (string, error) {
	cfg, err := q.resolveConfig(ck)
	if err != nil {
		return "", err
	}

	switch cfg.Transport {
	case TransportGenerativeStream:
		return ck.dispatchStream(ctx, cfg, q, func(record StreamRecord) error {
			if q.onRecord != nil {
				q.onRecord(record)
			}

			return nil
		})

	default:
		return ck.dispatchTemplated(ctx, cfg, q)
	}
}

// Stream dispatches the query against a generative-stream provider and
// returns the live stream. Configuration problems surface here, before
// any goroutine starts; everything later arrives through Wait.
func (q Query) Stream(ctx context.Context, ck *Adapter) (*Stream, error) {
	cfg, err := q.resolveConfig(ck)
	if err != nil {
		return nil, err
	}

	if cfg.Transport != TransportGenerativeStream {
		return nil, errors.WithStack(newFailure(FailConfigInvalid, "validate",
			"provider '%s' uses the %s transport, which does not stream", cfg.Id, cfg.Transport))
	}

	s := newStream()

	go func() {
		text, err := ck.dispatchStream(ctx, cfg, q, func(record StreamRecord) error {
			select {
			case s.records <- record:
				return nil

			case <-ctx.Done():
				return ctx.Err()
			}
		})

		s.finish(text, err)
	}()

	return s, nil
}

// resolveConfig snapshots the target config and validates it before any
// network attempt.
func (q Query) resolveConfig(ck *Adapter) (ProviderConfig, error) {
	var cfg ProviderConfig
	var err error

	if q.providerId != "" {
		cfg, err = ck.registry.Get(q.providerId)
	} else {
		cfg, err = ck.registry.Active()
	}

	if err != nil {
		return ProviderConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return ProviderConfig{}, err
	}

	return cfg, nil
}
