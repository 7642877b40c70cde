package contextkey

import (
	"net/url"

	"github.com/cockroachdb/errors"
)

// TransportKind selects how a provider is spoken to on the wire.
type TransportKind int

const (
	// TransportGenerativeStream is the fixed-shape streaming generate
	// protocol: POST {endpoint}/api/generate, NDJSON response.
	TransportGenerativeStream TransportKind = iota
	// TransportTemplated is a fully user-authored request/response
	// contract: body template in, response path out.
	TransportTemplated
)

func (k TransportKind) String() string {
	switch k {
	case TransportGenerativeStream:
		return "generative-stream"
	case TransportTemplated:
		return "templated"
	default:
		return "unknown"
	}
}

// ProviderConfig describes one configured backend. Configs are created
// and edited by the configuration UI, owned by a Registry, and handed to
// dispatch as immutable snapshots; the adapter never mutates one.
type ProviderConfig struct {
	// Id is assigned by the Registry when empty.
	Id        string
	Transport TransportKind
	// Endpoint is the absolute base URL of the backend.
	Endpoint string
	// Model is required for TransportGenerativeStream.
	Model string
	// AuthKey, when set, is injected as a header unless the declared
	// headers already carry a credential.
	AuthKey string
	// ContextLimit is the maximum token count the backend accepts.
	// Nil means unknown, which never exceeds.
	ContextLimit *int

	// Templated-only fields.

	// HttpMethod is GET, POST or PUT. Empty defaults to POST.
	HttpMethod string
	// HeadersJson is a flat JSON object of extra headers. Malformed
	// content degrades to no custom headers.
	HeadersJson string
	// BodyTemplate is the request body with a {{input}} marker.
	BodyTemplate string
	// ResponsePath is the dot/bracket path to the answer string.
	ResponsePath string
}

var allowedMethods = map[string]struct{}{
	"GET":  {},
	"POST": {},
	"PUT":  {},
}

// Validate checks the invariants required before any network attempt.
func (cfg ProviderConfig) Validate() error {
	if cfg.Endpoint == "" {
		return validationFailure(cfg, "endpoint is required")
	}

	if u, err := url.Parse(cfg.Endpoint); err != nil || !u.IsAbs() {
		return validationFailure(cfg, "endpoint %q is not an absolute URL", cfg.Endpoint)
	}

	switch cfg.Transport {
	case TransportGenerativeStream:
		if cfg.Model == "" {
			return validationFailure(cfg, "a model is required for the generative-stream transport")
		}

	case TransportTemplated:
		if cfg.BodyTemplate == "" {
			return validationFailure(cfg, "a body template is required for the templated transport")
		}

		if cfg.ResponsePath == "" {
			return validationFailure(cfg, "a response path is required for the templated transport")
		}

		if _, ok := allowedMethods[cfg.method()]; !ok {
			return validationFailure(cfg, "HTTP method %q is not one of GET, POST, PUT", cfg.HttpMethod)
		}

	default:
		return validationFailure(cfg, "unknown transport kind %d", cfg.Transport)
	}

	return nil
}

// method returns the effective HTTP method for the templated transport.
func (cfg ProviderConfig) method() string {
	if cfg.HttpMethod == "" {
		return "POST"
	}

	return cfg.HttpMethod
}

// snapshot deep-copies the config so an in-flight call keeps its own
// immutable view while the registry copy is edited.
func (cfg ProviderConfig) snapshot() ProviderConfig {
	if cfg.ContextLimit != nil {
		limit := *cfg.ContextLimit
		cfg.ContextLimit = &limit
	}

	return cfg
}

func validationFailure(cfg ProviderConfig, format string, args ...any) error {
	failure := newFailure(FailConfigInvalid, "validate", format, args...)
	failure.Provider = cfg.Id

	return errors.WithStack(failure)
}
