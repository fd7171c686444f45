package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Step composition errors
const (
	// ErrCodeInvalidStep indicates a step value that cannot be classified.
	ErrCodeInvalidStep ErrorCode = "INVALID_STEP"
	// ErrCodeNotImplemented indicates a filter whose Run was never provided.
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	// ErrCodeSealedType indicates an attempt to extend a composition-only type.
	ErrCodeSealedType ErrorCode = "SEALED_TYPE"
)

// Input errors
const (
	// ErrCodeInvalidConfig indicates configuration that failed to load or validate.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidInput indicates caller supplied data that is not acceptable.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidManifest indicates a rendered manifest that cannot be parsed.
	ErrCodeInvalidManifest ErrorCode = "INVALID_MANIFEST"
	// ErrCodeNotFound indicates a requested resource that does not exist yet.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Nothing the engine reports is worth retrying: step failures are fatal to
// the run and the engine never retries them.
var retryableCodes = map[ErrorCode]bool{}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
