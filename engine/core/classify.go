package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/flowgate/n8n-mcp/pkg/logger"
)

// Classify normalizes any caught failure into an *Error envelope. Errors
// that already carry a kind pass through unchanged; remote HTTP failures are
// mapped through the fixed status table; anything else becomes an internal
// error. Every outgoing message goes through the redaction pass, and every
// classification is logged before the envelope is returned.
func Classify(ctx context.Context, err error) *Error {
	if err == nil {
		return nil
	}
	classified := classify(err)
	classified.Message = RedactString(classified.Message)
	log := logger.FromContext(ctx)
	log.Error("tool invocation failed", "kind", classified.Kind, "error", RedactError(err))
	return classified
}

func classify(err error) *Error {
	var envelope *Error
	if errors.As(err, &envelope) {
		return &Error{
			Kind:    envelope.Kind,
			Message: envelope.Message,
			Detail:  envelope.Detail,
			cause:   err,
		}
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return classifyRequest(reqErr)
	}
	return WrapError(KindInternalError, err.Error(), err)
}

func classifyRequest(reqErr *RequestError) *Error {
	if reqErr.Status == 0 {
		return classifyNoResponse(reqErr)
	}
	switch reqErr.Status {
	case http.StatusBadRequest:
		return badRequestError(reqErr)
	case http.StatusUnauthorized:
		return WrapError(KindAuthenticationError,
			"authentication failed: check your API key", reqErr)
	case http.StatusForbidden:
		return WrapError(KindAuthorizationError,
			"permission denied: your API key does not allow this operation", reqErr)
	case http.StatusNotFound:
		return WrapError(KindNotFound, notFoundMessage(reqErr), reqErr)
	case http.StatusMethodNotAllowed:
		return methodNotAllowedError(reqErr)
	case http.StatusTooManyRequests:
		return WrapError(KindRateLimitError,
			"rate limit exceeded: slow down and retry later", reqErr)
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return WrapError(KindAPIError,
			fmt.Sprintf("n8n server error (status %d): try again later", reqErr.Status), reqErr)
	default:
		if reqErr.Message != "" {
			return WrapError(KindAPIError,
				fmt.Sprintf("n8n API error: %s (status %d)", reqErr.Message, reqErr.Status), reqErr)
		}
		return WrapError(KindAPIError,
			fmt.Sprintf("n8n API error (status %d)", reqErr.Status), reqErr)
	}
}

func classifyNoResponse(reqErr *RequestError) *Error {
	cause := reqErr.Err
	switch {
	case isTimeoutError(cause):
		return WrapError(KindTimeoutError,
			"request to the n8n instance timed out: the server may be busy", reqErr)
	case isNetworkError(cause):
		return WrapError(KindNetworkError,
			"network error: unable to connect to the n8n instance", reqErr)
	case cause != nil:
		return WrapError(KindAPIError, cause.Error(), reqErr)
	default:
		return WrapError(KindAPIError, "no response received from the n8n instance", reqErr)
	}
}

func badRequestError(reqErr *RequestError) *Error {
	payload := strings.ToLower(reqErr.Message + " " + reqErr.Body)
	if strings.Contains(payload, "settings") {
		return WrapError(KindInvalidParams,
			"invalid request: the n8n API requires a settings object on workflows; "+
				"supply settings (an empty object is accepted)", reqErr)
	}
	if reqErr.Message != "" {
		return WrapError(KindInvalidParams, fmt.Sprintf("invalid request: %s", reqErr.Message), reqErr)
	}
	return WrapError(KindInvalidParams, "invalid request: the n8n API rejected the parameters", reqErr)
}

func notFoundMessage(reqErr *RequestError) string {
	if reqErr.Message != "" {
		return fmt.Sprintf("not found: %s", reqErr.Message)
	}
	return fmt.Sprintf("not found: %s", reqErr.Path)
}

func methodNotAllowedError(reqErr *RequestError) *Error {
	msg := fmt.Sprintf("method %s not allowed on %s", reqErr.Method, reqErr.Path)
	// The gateway's update verbs are configurable, so the hint names both
	// candidates instead of assuming which one was tried.
	updateVerb := reqErr.Method == http.MethodPut || reqErr.Method == http.MethodPatch
	if updateVerb && strings.Contains(reqErr.Path, "/workflows/") {
		msg += ": n8n versions differ in whether workflow updates accept PUT or PATCH"
	}
	return WrapError(KindAPIError, msg, reqErr)
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out")
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"no route to host",
		"network unreachable",
		"no such host",
		"name resolution failed",
	} {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
