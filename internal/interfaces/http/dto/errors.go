package dto

import "net/http"

// Error codes returned in the response envelope
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when a request fails domain validation
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeUnauthorized is used when authentication is required but missing or invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used when an operation is out of sequence
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeUnavailable is used when an upstream dependency is unavailable
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// domainCodeStatus maps domain error codes to HTTP status codes
var domainCodeStatus = map[string]int{
	"NOT_FOUND":           http.StatusNotFound,
	"INVALID_INPUT":       http.StatusBadRequest,
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_STATE":       http.StatusConflict,
	"NOT_HIDDEN":          http.StatusConflict,
	"ALREADY_HIDDEN":      http.StatusConflict,
	"CATALOG_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
