package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// HTTPError represents an HTTP error with status code and machine-readable code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// Validation signals malformed or out-of-range input.
func Validation(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, "VALIDATION_ERROR")
}

// Unauthorized signals a missing, invalid or expired credential. The message
// is deliberately generic so callers cannot probe which check failed.
func Unauthorized() *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, "could not validate credentials", "NOT_AUTHENTICATED")
}

// Forbidden signals an authenticated caller without a sufficient role.
func Forbidden() *HTTPError {
	return NewHTTPError(http.StatusForbidden, "insufficient role for this operation", "INSUFFICIENT_ROLE")
}

// NotFound signals that an entity addressed by id or unique key does not exist.
func NotFound(entity string, id interface{}) *HTTPError {
	return NewHTTPError(
		http.StatusNotFound,
		fmt.Sprintf("%s %v not found", entity, id),
		strings.ToUpper(entity)+"_NOT_FOUND",
	)
}

// Conflict signals a unique-constraint violation, pre-flight or store-level.
func Conflict(code, message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, code)
}

// Internal signals an unclassified failure. Internal detail is never exposed.
func Internal() *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
