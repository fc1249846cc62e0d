package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline errors. Each one aborts the transcription run.
const (
	// ErrCodeMissingCredential indicates a required API key is not configured.
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	// ErrCodeInputNotFound indicates neither the requested nor the fallback input exists.
	ErrCodeInputNotFound ErrorCode = "INPUT_NOT_FOUND"
	// ErrCodeSessionSetup indicates the tool server could not be launched or initialized.
	ErrCodeSessionSetup ErrorCode = "SESSION_SETUP_FAILED"
	// ErrCodeInvocation indicates the tool call failed in transport or on the remote side.
	ErrCodeInvocation ErrorCode = "INVOCATION_FAILED"
	// ErrCodeUnsupportedResultShape indicates the tool reply carried no text content.
	ErrCodeUnsupportedResultShape ErrorCode = "UNSUPPORTED_RESULT_SHAPE"
	// ErrCodePersist indicates the transcript could not be written.
	ErrCodePersist ErrorCode = "PERSIST_FAILED"
)

// Connection/Availability errors (retryable)
const (
	// ErrCodeConnectionFailed indicates a failed connection to a service.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Resource and validation errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUnauthorized indicates a remote service rejected the credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected local failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeExternalService:  true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// None of the pipeline codes are retryable: the transcription run fails fast.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
