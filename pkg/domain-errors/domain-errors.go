package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeInternal     Code = "internal_error"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeTimeout      Code = "timeout"
	CodeCanceled     Code = "canceled"

	// Assertion verification failures (untrusted third-party identity proof).
	CodeInvalidAssertion Code = "invalid_assertion"
	CodeInvalidSignature Code = "invalid_signature"
	CodeExpiredAssertion Code = "expired_assertion"
	CodeAudienceMismatch Code = "audience_mismatch"
	CodeMissingEmail     Code = "missing_email"

	// Session credential failures (first-party token).
	CodeMalformedToken Code = "malformed_token"
	CodeExpired        Code = "expired"

	// Configuration failures. These indicate a deployment defect and must
	// surface at service start, never as an unauthenticated result.
	CodeSigningKeyUnavailable Code = "signing_key_unavailable"

	// Client-side sign-in flow failures.
	CodeProviderUnavailable  Code = "provider_unavailable"
	CodeBrokerExchangeFailed Code = "broker_exchange_failed"
	CodeNetwork              Code = "network_error"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Retryable reports whether the error represents a transient condition the
// caller may retry, as opposed to a terminal rejection.
func Retryable(err error) bool {
	return HasCode(err, CodeNetwork) || HasCode(err, CodeTimeout)
}
