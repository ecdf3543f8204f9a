package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized codes
// used on the wire
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":         ErrCodeNotFound,
	"LINE_NOT_FOUND":    ErrCodeNotFound,
	"PAYMENT_NOT_FOUND": ErrCodeNotFound,

	"ALREADY_EXISTS":     ErrCodeAlreadyExists,
	"DUPLICATE_NAME":     ErrCodeAlreadyExists,
	"DUPLICATE_ANALYTIC": ErrCodeAlreadyExists,

	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"INVALID_NAME":          ErrCodeValidation,
	"INVALID_TYPE":          ErrCodeValidation,
	"INVALID_DATE_RANGE":    ErrCodeValidation,
	"INVALID_ANALYTIC":      ErrCodeValidation,
	"INVALID_ANALYTIC_NAME": ErrCodeValidation,
	"INVALID_PARTNER":       ErrCodeValidation,
	"INVALID_PRODUCT":       ErrCodeValidation,
	"INVALID_QUANTITY":      ErrCodeValidation,
	"INVALID_PRICE":         ErrCodeValidation,
	"INVALID_AMOUNT":        ErrCodeValidation,
	"INVALID_METHOD":        ErrCodeValidation,
	"INVALID_KIND":          ErrCodeValidation,
	"INVALID_DUE_DATE":      ErrCodeValidation,
	"INVALID_DOCUMENT_NO":   ErrCodeValidation,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"BAD_REQUEST":           ErrCodeBadRequest,

	"INVALID_STATE":     ErrCodeInvalidState,
	"NO_LINES":          ErrCodeBusinessRule,
	"NO_DUE_DATE":       ErrCodeBusinessRule,
	"HAS_PAYMENTS":      ErrCodeBusinessRule,
	"OVERPAYMENT":       ErrCodeBusinessRule,
	"ALREADY_VERIFIED":  ErrCodeBusinessRule,
	"ANALYTIC_ARCHIVED": ErrCodeBusinessRule,
	"NOT_ARCHIVED":      ErrCodeBusinessRule,

	"INTERNAL_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized
// wire format. Unknown codes are treated as business rule violations so
// new domain rules surface as 422 instead of 500.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return ErrCodeBusinessRule
}
