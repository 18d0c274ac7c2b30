package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies business errors so the HTTP layer can map them to status
// codes without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindPolicyViolation
	KindUnauthorized
	KindExternalProvider
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPolicyViolation:
		return "policy_violation"
	case KindUnauthorized:
		return "unauthorized"
	case KindExternalProvider:
		return "external_provider"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a kind-tagged business error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func PolicyViolation(message string) *Error {
	return &Error{Kind: KindPolicyViolation, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ExternalProvider wraps a payment-provider failure. Money-moving callers
// must surface these, never swallow them.
func ExternalProvider(message string, err error) *Error {
	return &Error{Kind: KindExternalProvider, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain, KindUnknown if absent.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
