package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "apikit/internal/errors"
)

// Envelope is the uniform response wrapper. Absent optional fields are
// omitted from the serialized payload.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
}

// Page is the data payload for list endpoints.
type Page struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}

// OK writes a 200 success envelope.
func OK(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Created writes a 201 success envelope.
func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// NoContent writes a 204 with no body.
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Error writes an error envelope. Typed *errors.HTTPError values map to
// their status and code; anything else becomes a 500 without leaking detail.
func Error(c echo.Context, err error) error {
	var httpErr *apperrors.HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = apperrors.Internal()
	}
	return c.JSON(httpErr.StatusCode, Envelope{
		Success:   false,
		Message:   httpErr.Message,
		ErrorCode: httpErr.Code,
	})
}
