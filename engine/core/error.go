package core

import "fmt"

// Kind is the fixed failure taxonomy every error is normalized into before
// it reaches a tool caller.
type Kind string

const (
	KindInvalidParams       Kind = "invalid_params"
	KindInternalError       Kind = "internal_error"
	KindAuthenticationError Kind = "authentication_error"
	KindAuthorizationError  Kind = "authorization_error"
	KindNotFound            Kind = "not_found"
	KindRateLimitError      Kind = "rate_limit_error"
	KindNetworkError        Kind = "network_error"
	KindTimeoutError        Kind = "timeout_error"
	KindAPIError            Kind = "api_error"
)

// Error is the envelope a failure is carried in once classified. Errors
// raised internally (e.g. input validation) construct it directly; remote
// failures are mapped into it by Classify.
type Error struct {
	Kind    Kind
	Message string
	Detail  any
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds an envelope with an explicit kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an envelope carrying the underlying cause for logging.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// RequestError carries the HTTP context of a failed call against the n8n
// instance from the gateway to the classifier. Status 0 means no response
// was received at all.
type RequestError struct {
	Status  int
	Method  string
	Path    string
	Message string
	Body    string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
