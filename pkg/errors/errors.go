// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown            = "UNKNOWN_ERROR"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeUploadError        = "UPLOAD_ERROR"
	CodeDownloadError      = "DOWNLOAD_ERROR"
	CodeConfigError        = "CONFIG_ERROR"
	CodeTimeout            = "TIMEOUT_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnknownDC          = "UNKNOWN_DC"
	CodeUnknownTier        = "UNKNOWN_TIER"
	CodeParameterMissing   = "PARAMETER_MISSING"
	CodeParameterDuplicate = "PARAMETER_DUPLICATE"
	CodeJSONParse          = "JSON_PARSE_ERROR"
	CodeCLIUsage           = "CLI_USAGE_ERROR"
	CodeSolveInfeasible    = "SOLVE_INFEASIBLE"
	CodeReducerInvariant   = "REDUCER_INVARIANT_VIOLATION"
	CodeBuilderInvariant   = "BUILDER_INVARIANT_VIOLATION"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrDatabaseError      = New(CodeDatabaseError, "database error")
	ErrUploadError        = New(CodeUploadError, "upload error")
	ErrDownloadError      = New(CodeDownloadError, "download error")
	ErrConfigError        = New(CodeConfigError, "configuration error")
	ErrTimeout            = New(CodeTimeout, "operation timeout")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrUnknownDC          = New(CodeUnknownDC, "unknown data center")
	ErrUnknownTier        = New(CodeUnknownTier, "unknown storage tier")
	ErrParameterMissing   = New(CodeParameterMissing, "required parameter missing")
	ErrParameterDuplicate = New(CodeParameterDuplicate, "duplicate parameter")
	ErrJSONParse          = New(CodeJSONParse, "failed to parse json document")
	ErrCLIUsage           = New(CodeCLIUsage, "invalid command line usage")
	// ErrSolveInfeasible is informational, not fatal: callers that match it
	// with errors.Is should report "no placement satisfies the constraints"
	// rather than treat the solve as a processing failure.
	ErrSolveInfeasible  = New(CodeSolveInfeasible, "no placement satisfies the given constraints")
	ErrReducerInvariant = New(CodeReducerInvariant, "zdd reducer invariant violated")
	ErrBuilderInvariant = New(CodeBuilderInvariant, "zdd builder invariant violated")
)

// IsDatabaseError checks if the error is a database error.
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabaseError)
}

// IsUploadError checks if the error is an upload error.
func IsUploadError(err error) bool {
	return errors.Is(err, ErrUploadError)
}

// IsDownloadError checks if the error is a download error.
func IsDownloadError(err error) bool {
	return errors.Is(err, ErrDownloadError)
}

// IsSolveInfeasible checks if the error indicates the problem has no valid
// configuration, as opposed to a processing failure.
func IsSolveInfeasible(err error) bool {
	return errors.Is(err, ErrSolveInfeasible)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
