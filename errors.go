package contextkey

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// FailKind classifies everything that can go wrong during a dispatch.
// Every error returned across the package boundary carries exactly one
// kind, so the surrounding UI can render an actionable message instead
// of a generic one.
type FailKind int

const (
	// FailConfigInvalid marks a ProviderConfig missing a required
	// field. No network attempt is made.
	FailConfigInvalid FailKind = iota
	// FailTransport marks a connection, DNS, TLS or timeout error from
	// the underlying transport.
	FailTransport
	// FailDecode marks a response body that was expected to be JSON
	// but is not.
	FailDecode
	// FailPathMiss marks a response path that does not resolve against
	// the actual response shape.
	FailPathMiss
	// FailTypeMismatch marks a response path resolving to a value that
	// is not a string, number or boolean.
	FailTypeMismatch
	// FailArrayRoot marks a response whose top-level JSON value is an
	// array, which the path syntax cannot address.
	FailArrayRoot
	// FailStreamAborted marks a stream closed by the transport before
	// a completion record was seen.
	FailStreamAborted
)

func (k FailKind) String() string {
	switch k {
	case FailConfigInvalid:
		return "invalid configuration"
	case FailTransport:
		return "transport error"
	case FailDecode:
		return "undecodable response"
	case FailPathMiss:
		return "response path miss"
	case FailTypeMismatch:
		return "response type mismatch"
	case FailArrayRoot:
		return "array response root"
	case FailStreamAborted:
		return "stream aborted"
	default:
		return "unknown failure"
	}
}

// Failure is the tagged result for every failed dispatch. It is always
// returned, never panicked, and keeps enough structure for the caller
// to explain which step failed and what was configured.
type Failure struct {
	Kind FailKind
	// Step names the dispatch phase that failed: "validate", "send",
	// "decode", "extract" or "stream".
	Step string
	// Provider is the id of the ProviderConfig in use, when known.
	Provider string
	// AvailableKeys lists, for a path miss, the keys present at the
	// last response level that was navigated successfully.
	AvailableKeys []string

	msg   string
	cause error
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("%s during %s: %s", f.Kind, f.Step, f.msg)

	if len(f.AvailableKeys) > 0 {
		msg += fmt.Sprintf(" (available keys: %s)", strings.Join(f.AvailableKeys, ", "))
	}

	return msg
}

func (f *Failure) Unwrap() error {
	return f.cause
}

// FailureOf unwraps the Failure carried by an error returned from this
// package, or nil for foreign errors.
func FailureOf(err error) *Failure {
	var failure *Failure

	if errors.As(err, &failure) {
		return failure
	}

	return nil
}

// IsKind reports whether err carries a Failure of the given kind.
func IsKind(err error, kind FailKind) bool {
	failure := FailureOf(err)

	return failure != nil && failure.Kind == kind
}

func newFailure(kind FailKind, step, format string, args ...any) *Failure {
	return &Failure{
		Kind: kind,
		Step: step,
		msg:  fmt.Sprintf(format, args...),
	}
}

func wrapFailure(cause error, kind FailKind, step, format string, args ...any) *Failure {
	failure := newFailure(kind, step, format, args...)
	failure.cause = cause

	return failure
}
