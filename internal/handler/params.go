package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "apikit/internal/errors"
)

const defaultPageSize = 20

// pageParams reads skip/limit query parameters. Range enforcement happens in
// the repository; only syntax is checked here.
func pageParams(c echo.Context) (skip int, limit int, err error) {
	skip, err = intQueryParam(c, "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err = intQueryParam(c, "limit", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func intQueryParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation(name + " must be an integer")
	}
	return parsed, nil
}

// boolQueryParam returns nil when the parameter is absent.
func boolQueryParam(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.Validation(name + " must be a boolean")
	}
	return &parsed, nil
}

// idParam parses the :id path parameter.
func idParam(c echo.Context) (uint, error) {
	parsed, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.Validation("invalid id")
	}
	return uint(parsed), nil
}
