// Package errors provides the unified error type used across the transcription
// client and the vault helpers.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable code, a human-readable message, structured details and the
// underlying cause. Commands translate codes to process exit statuses with
// ExitCode.
package errors
