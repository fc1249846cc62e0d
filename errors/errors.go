package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Pipeline error constructors ---

// MissingCredential reports that the named credential is not configured.
func MissingCredential(name string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingCredential,
		Message: fmt.Sprintf("%s is not set. Add it to the environment or a .env file.", name),
		Details: map[string]any{"stage": "credentials", "credential": name},
	}
}

// InputNotFound reports that no usable input file exists for the requested path.
func InputNotFound(path string) *AppError {
	return &AppError{
		Code:    ErrCodeInputNotFound,
		Message: fmt.Sprintf("Input file not found: %s", path),
		Details: map[string]any{"stage": "resolve", "path": path},
	}
}

// SessionSetup reports a failure to launch or initialize the tool server.
func SessionSetup(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeSessionSetup,
		Message: "Unable to start a session with the tool server.",
		Details: map[string]any{"stage": "session"},
		Cause:   cause,
	}
}

// Invocation reports a failed tool call.
func Invocation(tool string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInvocation,
		Message: fmt.Sprintf("Tool %s failed.", tool),
		Details: map[string]any{"stage": "invoke", "tool": tool},
		Cause:   cause,
	}
}

// UnsupportedResultShape reports a tool reply without any text content.
// kinds lists the content types that were present.
func UnsupportedResultShape(kinds []string) *AppError {
	msg := "Tool reply carried no content."
	if len(kinds) > 0 {
		msg = fmt.Sprintf("Tool reply carried no text content (got: %s).", strings.Join(kinds, ", "))
	}
	return &AppError{
		Code:    ErrCodeUnsupportedResultShape,
		Message: msg,
		Details: map[string]any{"stage": "decode", "content_types": kinds},
	}
}

// Persist reports a failure to write the transcript to path.
func Persist(path string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodePersist,
		Message: fmt.Sprintf("Unable to save transcript to %s.", path),
		Details: map[string]any{"stage": "persist", "path": path},
		Cause:   cause,
	}
}

// --- Common Error Constructors ---

// ConnectionFailed creates a new AppError for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for an operation that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation took too long.",
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		Details: details,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// Unauthorized creates a new AppError for credentials rejected by a service.
func Unauthorized(service string) *AppError {
	return &AppError{
		Code: ErrCodeUnauthorized, Message: fmt.Sprintf("The %s service rejected the credentials.", service),
		Details: map[string]any{"service": service},
	}
}

// Internal creates a new AppError for an unexpected local failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// ExternalServiceError creates a new AppError for an error from an external service.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service encountered an error.", service),
		Retryable: true,
		Details:   map[string]any{"service": service}, Cause: cause,
	}
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Wrap returns err as an AppError. AppErrors anywhere in the chain are
// returned as-is; anything else becomes an Internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
