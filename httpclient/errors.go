package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/fyaic/multimedia-to-note/errors"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout: the request or the server timed out (408).
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection: refused, reset, DNS and similar transport failures.
	ErrCodeConnection
	// ErrCodeAuth: the credential was rejected (401, 403).
	ErrCodeAuth
	// ErrCodeNotFound: 404.
	ErrCodeNotFound
	// ErrCodeRateLimit: 429.
	ErrCodeRateLimit
	// ErrCodeValidation: any other 4xx, or a request that could not be built.
	ErrCodeValidation
	// ErrCodeServer: 5xx and unexpected statuses.
	ErrCodeServer
)

var codeNames = [...]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeValidation: "validation",
	ErrCodeServer:     "server",
}

func (c ErrorCode) String() string {
	if c >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown"
}

// Error is a classified request failure.
type Error struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	// Body is the response body, if any.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError wraps a transport-level timeout.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError wraps a failure to reach the server or read its reply.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewValidationError reports a request that could not be built or sent.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode returns nil for 2xx and a classified *Error otherwise.
// Timeouts, rate limits and 5xx are retryable.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	e := &Error{StatusCode: statusCode, Message: fmt.Sprintf("HTTP %d", statusCode), Body: body}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusRequestTimeout:
		e.Code, e.Retryable = ErrCodeTimeout, true
	case statusCode == http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeValidation
	case statusCode >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsRetryable reports whether err is an *Error worth retrying.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// maxBodyDetail bounds the response body copied into AppError details.
const maxBodyDetail = 512

// ToAppError maps err onto the module's error taxonomy. service names the
// remote side in messages. Errors that are not *Error are wrapped as-is.
func ToAppError(service string, err error) *goerrors.AppError {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return goerrors.Wrap(err)
	}

	var appErr *goerrors.AppError
	switch e.Code {
	case ErrCodeTimeout:
		appErr = goerrors.Timeout(service)
	case ErrCodeConnection:
		appErr = goerrors.ConnectionFailed(service)
	case ErrCodeAuth:
		appErr = goerrors.Unauthorized(service)
	case ErrCodeNotFound:
		appErr = goerrors.NotFound(service+" resource", "")
	case ErrCodeValidation:
		appErr = goerrors.InvalidInput("", e.Message)
	default:
		appErr = goerrors.ExternalServiceError(service, nil)
	}
	appErr.WithCause(err)
	if e.StatusCode > 0 {
		appErr.WithDetail("status", e.StatusCode)
	}
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		if len(body) > maxBodyDetail {
			body = body[:maxBodyDetail]
		}
		appErr.WithDetail("body", body)
	}
	return appErr
}
