package brreg

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error type constants form the closed taxonomy every failure is mapped into.
const (
	// ErrorTypeNotFound indicates the organization number or code is unknown (HTTP 404).
	ErrorTypeNotFound = "NotFound"
	// ErrorTypeRateLimited indicates the registry throttled the request (HTTP 429).
	ErrorTypeRateLimited = "RateLimited"
	// ErrorTypeUnauthorized indicates missing or rejected credentials (HTTP 401/403).
	ErrorTypeUnauthorized = "Unauthorized"
	// ErrorTypeServer indicates a registry-side failure (HTTP 5xx).
	ErrorTypeServer = "Server"
	// ErrorTypeClient indicates a request the registry rejected (other 4xx).
	ErrorTypeClient = "Client"
	// ErrorTypeConnection indicates a transport-level failure (dial, reset, timeout).
	ErrorTypeConnection = "Connection"
	// ErrorTypeDecode indicates a payload that did not match any expected shape.
	ErrorTypeDecode = "Decode"
	// ErrorTypeRetryExhausted wraps the last transient error once retries run out.
	ErrorTypeRetryExhausted = "RetryExhausted"
	// ErrorTypeValidation indicates locally rejected input or configuration.
	ErrorTypeValidation = "Validation"
	// ErrorTypeUnknown is the catch-all; the original cause is always retained.
	ErrorTypeUnknown = "Unknown"
)

// ErrClientClosed is returned for any operation started after Close.
var ErrClientClosed = errors.New("brreg: client is closed")

// maxErrorBody caps how much of a failed response body is kept for diagnostics.
const maxErrorBody = 2048

// ClientError is the error type returned by every operation. Type is one of the
// ErrorType constants; StatusCode and Body carry the original response for
// diagnostics when the failure came off the wire.
type ClientError struct {
	Type       string
	Message    string
	Operation  string
	URL        string
	StatusCode int
	Body       string
	RetryAfter time.Duration
	Attempt    int
	MaxRetries int
	Timestamp  time.Time
	Cause      error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Operation != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Operation)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Attempt > 0 {
		msg = fmt.Sprintf("%s (attempt %d/%d)", msg, e.Attempt, e.MaxRetries)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches on error type so callers can use errors.Is with a prototype,
// e.g. errors.Is(err, &ClientError{Type: ErrorTypeNotFound}).
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*ClientError); ok {
		return e.Type == t.Type
	}
	return false
}

// DebugInfo renders a multi-line string with full diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.Operation != "" {
		info += fmt.Sprintf("Operation: %s\n", e.Operation)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if e.Body != "" {
		info += fmt.Sprintf("Body: %s\n", e.Body)
	}
	if e.RetryAfter > 0 {
		info += fmt.Sprintf("Retry After: %v\n", e.RetryAfter)
	}
	if e.Attempt > 0 {
		info += fmt.Sprintf("Attempt: %d/%d\n", e.Attempt, e.MaxRetries)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// IsTransient reports whether an error represents a transient failure that might
// succeed on retry: transport errors, 5xx responses and rate limiting (429).
// Permanent failures (other 4xx, decode, validation) return false.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		switch ce.Type {
		case ErrorTypeConnection, ErrorTypeServer, ErrorTypeRateLimited:
			return true
		default:
			return false
		}
	}
	return false
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrorTypeNotFound
}

// IsRateLimited reports whether err is a RateLimited error.
func IsRateLimited(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrorTypeRateLimited
}

// mapStatusError classifies a non-2xx response into the taxonomy. The body must
// already be read; only the first maxErrorBody bytes are retained.
func mapStatusError(op, url string, status int, body []byte, header http.Header) *ClientError {
	ce := &ClientError{
		Operation:  op,
		URL:        url,
		StatusCode: status,
		Body:       truncateBody(body),
		Timestamp:  time.Now(),
	}
	switch {
	case status == http.StatusNotFound:
		ce.Type = ErrorTypeNotFound
		ce.Message = "resource not found"
	case status == http.StatusTooManyRequests:
		ce.Type = ErrorTypeRateLimited
		ce.Message = "rate limited by registry"
		ce.RetryAfter = parseRetryAfter(header.Get("Retry-After"))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		ce.Type = ErrorTypeUnauthorized
		ce.Message = "request not authorized"
	case status >= 500:
		ce.Type = ErrorTypeServer
		ce.Message = "registry server error"
	case status >= 400:
		ce.Type = ErrorTypeClient
		ce.Message = "request rejected by registry"
	default:
		ce.Type = ErrorTypeUnknown
		ce.Message = fmt.Sprintf("unexpected status %d", status)
	}
	return ce
}

// mapTransportError classifies a transport-level failure (dial, reset, timeout).
func mapTransportError(op, url string, err error) *ClientError {
	return &ClientError{
		Type:      ErrorTypeConnection,
		Message:   "connection failed",
		Operation: op,
		URL:       url,
		Timestamp: time.Now(),
		Cause:     err,
	}
}

// decodeError wraps a decoder failure; decode errors are permanent.
func decodeError(op string, cause error) *ClientError {
	return &ClientError{
		Type:      ErrorTypeDecode,
		Message:   "response did not match expected shape",
		Operation: op,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// validationError reports locally rejected input.
func validationError(op, message string, cause error) *ClientError {
	return &ClientError{
		Type:      ErrorTypeValidation,
		Message:   message,
		Operation: op,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// retryExhausted tags the last transient error after the retry budget ran out.
func retryExhausted(op string, attempts, maxRetries int, last error) *ClientError {
	ce := &ClientError{
		Type:       ErrorTypeRetryExhausted,
		Message:    "retries exhausted",
		Operation:  op,
		Attempt:    attempts,
		MaxRetries: maxRetries,
		Timestamp:  time.Now(),
		Cause:      last,
	}
	var inner *ClientError
	if errors.As(last, &inner) {
		ce.URL = inner.URL
		ce.StatusCode = inner.StatusCode
		ce.Body = inner.Body
	}
	return ce
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}
