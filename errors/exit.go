package errors

// Process exit statuses for the command-line tools.
const (
	ExitOK                     = 0
	ExitFailure                = 1
	ExitMissingCredential      = 2
	ExitInputNotFound          = 3
	ExitSessionSetup           = 4
	ExitInvocation             = 5
	ExitUnsupportedResultShape = 6
	ExitPersist                = 7
)

var exitCodes = map[ErrorCode]int{
	ErrCodeMissingCredential:      ExitMissingCredential,
	ErrCodeInputNotFound:          ExitInputNotFound,
	ErrCodeSessionSetup:           ExitSessionSetup,
	ErrCodeInvocation:             ExitInvocation,
	ErrCodeUnsupportedResultShape: ExitUnsupportedResultShape,
	ErrCodePersist:                ExitPersist,
}

// ExitCode maps err to a process exit status. nil maps to ExitOK and any
// error outside the pipeline taxonomy maps to ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	appErr, ok := AsAppError(err)
	if !ok {
		return ExitFailure
	}
	if code, ok := exitCodes[appErr.Code]; ok {
		return code
	}
	return ExitFailure
}
