package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
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

// Is reports whether target is an *AppError with the same code, so the
// code sentinels below work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
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
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidStep     = &AppError{Code: ErrCodeInvalidStep}
	ErrNotImplemented  = &AppError{Code: ErrCodeNotImplemented}
	ErrSealedType      = &AppError{Code: ErrCodeSealedType}
	ErrInvalidConfig   = &AppError{Code: ErrCodeInvalidConfig}
	ErrInvalidManifest = &AppError{Code: ErrCodeInvalidManifest}
)

// IsCode reports whether err, or any error it wraps, is an AppError with code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// --- Engine Error Constructors ---

// InvalidStep creates a new AppError for a value that is not a usable step.
func InvalidStep(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidStep, Message: fmt.Sprintf("Invalid step: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// NotImplemented creates a new AppError for a filter that never overrode Run.
func NotImplemented(filter string) *AppError {
	return &AppError{
		Code: ErrCodeNotImplemented, Message: fmt.Sprintf("Filter %s does not implement Run.", filter),
		HTTPStatus: http.StatusNotImplemented, Retryable: false,
		Details: map[string]any{"filter": filter},
	}
}

// SealedType creates a new AppError for a type that extends a sealed base.
func SealedType(typeName, base string) *AppError {
	return &AppError{
		Code: ErrCodeSealedType, Message: fmt.Sprintf("Type %s embeds %s, which is not an acceptable base type.", typeName, base),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"type": typeName, "base": base},
	}
}

// InvalidConfig creates a new AppError for configuration that cannot be used.
func InvalidConfig(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("Invalid configuration: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
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
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// InvalidManifest creates a new AppError for a manifest document that cannot be read.
func InvalidManifest(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidManifest, Message: "The manifest document could not be parsed.",
		HTTPStatus: http.StatusBadRequest, Retryable: false, Cause: cause,
	}
}

// NotFound creates a new AppError for a missing resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
