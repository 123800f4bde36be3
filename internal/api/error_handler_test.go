package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{fmt.Errorf("%w: title is required", domain.ErrInvalidInput), http.StatusBadRequest, "invalid input: title is required"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{fmt.Errorf("load: %w", domain.ErrPropertyNotFound), http.StatusNotFound, "property not found"},
		{domain.ErrAvailabilityNotFound, http.StatusNotFound, "availability not found"},
		{domain.ErrFileNotFound, http.StatusNotFound, "file not found"},
		{domain.ErrUserExists, http.StatusBadRequest, "user already exists"},
		{fmt.Errorf("block date: %w", domain.ErrDateAlreadyBlocked), http.StatusBadRequest, "date already blocked"},
		{echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge, "too big"},
		{errors.New("connection reset by peer"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tc.msg {
				t.Fatalf("error = %q, want %q", body.Error, tc.msg)
			}
		})
	}
}
