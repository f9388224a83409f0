package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors.
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	// ErrCodeBusy indicates the single execution slot is occupied.
	ErrCodeBusy ErrorCode = "BUSY"
)

// Validation errors.
const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Authentication errors.
const (
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Internal errors.
const (
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeStorage  ErrorCode = "STORAGE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeBusy:               true,
	ErrCodeStorage:            true,
}

// IsRetryableCode reports whether clients may retry an error with this code.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
