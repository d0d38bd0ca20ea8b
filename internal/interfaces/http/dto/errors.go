package dto

import "net/http"

// Error codes returned in the response envelope.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Request error codes
const (
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Document generation error codes
const (
	// ErrCodeLayoutOverflow means the product rows do not fit the one-page form
	ErrCodeLayoutOverflow    = "ERR_LAYOUT_OVERFLOW"
	ErrCodeTemplateMismatch  = "ERR_TEMPLATE_MISMATCH"
	ErrCodeRenderTimeout     = "ERR_RENDER_TIMEOUT"
	ErrCodeRenderUnavailable = "ERR_RENDER_UNAVAILABLE"
	ErrCodeRenderFailed      = "ERR_RENDER_FAILED"
	ErrCodeCaptureFailed     = "ERR_CAPTURE_FAILED"
	ErrCodeStorageFailed     = "ERR_STORAGE_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound: http.StatusNotFound,

	// The record is valid but cannot be drawn on the form
	ErrCodeLayoutOverflow:    http.StatusUnprocessableEntity,
	ErrCodeRenderTimeout:     http.StatusGatewayTimeout,
	ErrCodeRenderUnavailable: http.StatusServiceUnavailable,
	ErrCodeTemplateMismatch:  http.StatusInternalServerError,
	ErrCodeRenderFailed:      http.StatusInternalServerError,
	ErrCodeCaptureFailed:     http.StatusInternalServerError,
	ErrCodeStorageFailed:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps the codes carried by domain and render errors
// to the codes in the response envelope
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":          ErrCodeNotFound,
	"INVALID_INPUT":      ErrCodeInvalidInput,
	"UNAUTHORIZED":       ErrCodeUnauthorized,
	"FORBIDDEN":          ErrCodeForbidden,
	"INVALID_HTML":       ErrCodeTemplateMismatch,
	"TEMPLATE_MISMATCH":  ErrCodeTemplateMismatch,
	"LAYOUT_OVERFLOW":    ErrCodeLayoutOverflow,
	"RENDER_TIMEOUT":     ErrCodeRenderTimeout,
	"RENDER_UNAVAILABLE": ErrCodeRenderUnavailable,
	"RENDER_FAILED":      ErrCodeRenderFailed,
	"CAPTURE_FAILED":     ErrCodeCaptureFailed,
	"STORAGE_FAILED":     ErrCodeStorageFailed,
}

// NormalizeErrorCode converts a domain error code to the envelope format.
// Codes already in the envelope format, or unknown, are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
