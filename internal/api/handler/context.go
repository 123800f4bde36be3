package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alquilercordoba/rental-system/internal/api/middleware"
	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

// caller returns the authenticated identity injected by middleware.Auth.
func caller(c echo.Context) (domain.Identity, error) {
	return middleware.IdentityFrom(c)
}

// pathID parses a positive numeric :id route parameter. Anything else is
// reported as not found, matching how an unknown id behaves.
func pathID(c echo.Context, notFound error) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

// queryInt64 parses an optional integer query parameter. Absent or empty
// yields nil; a malformed value is an ErrInvalidInput.
func queryInt64(c echo.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, name)
	}
	return &v, nil
}

// queryIntLenient parses paging parameters; malformed values fall back to 0 so
// the service applies its defaults.
func queryIntLenient(c echo.Context, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return 0
	}
	return v
}
