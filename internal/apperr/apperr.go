package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Kind is a short machine-readable error category. Callers branch on kinds
// via Is/KindOf rather than string matching.
type Kind string

const (
	KindFetch         Kind = "fetch"
	KindAuth          Kind = "auth"
	KindNotFound      Kind = "not_found"
	KindRateLimit     Kind = "rate_limit"
	KindValidation    Kind = "validation"
	KindSafetyBlock   Kind = "safety_block"
	KindTruncation    Kind = "truncation"
	KindTokenBudget   Kind = "token_budget"
	KindGeneration    Kind = "generation_failed"
	KindInvalidCode   Kind = "invalid_generated_code"
	KindServerError   Kind = "server_error"
	KindTimeout       Kind = "timeout"
)

// Error wraps an underlying error with a kind, the failing operation, and a
// remediation hint surfaced to users.
type Error struct {
	Op   string
	Kind Kind
	Hint string
	Err  error

	// Status is the HTTP-like status from an upstream service, when known.
	Status int
	// RetryAfter is a wait hint for rate-limited calls.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with a default remediation hint for the kind.
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Hint: defaultHint(kind), Err: err}
}

// KindOf extracts the kind from err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Hint extracts the remediation hint from err, or "" when err carries none.
func Hint(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint
	}
	return ""
}

// Retryable reports whether err belongs to a transient class that a retry
// loop may attempt again. Auth, validation, and safety blocks never retry.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimit, KindServerError, KindTimeout, KindFetch:
		return true
	case KindAuth, KindValidation, KindSafetyBlock, KindNotFound,
		KindTruncation, KindTokenBudget, KindInvalidCode, KindGeneration:
		return false
	}
	return false
}

func defaultHint(kind Kind) string {
	switch kind {
	case KindFetch:
		return "check the design file key and network connectivity"
	case KindAuth:
		return "verify the API token is set and has access to the file"
	case KindNotFound:
		return "the requested file or node does not exist"
	case KindRateLimit:
		return "wait before retrying"
	case KindValidation:
		return "check the request parameters"
	case KindSafetyBlock:
		return "the generation service refused the prompt; simplify the component"
	case KindTruncation:
		return "increase the output token limit or reduce component complexity"
	case KindTokenBudget:
		return "reduce component complexity or raise the token budget"
	case KindGeneration:
		return "all generation strategies failed; reduce component complexity"
	case KindInvalidCode:
		return "the generation service returned unusable output; retry or simplify"
	case KindServerError:
		return "the upstream service failed; retry shortly"
	case KindTimeout:
		return "the upstream service timed out; retry shortly"
	}
	return ""
}
