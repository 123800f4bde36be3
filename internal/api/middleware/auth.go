package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

const identityKey = "identity"

// Auth validates the bearer JWT (HS256 only) and stores the caller's
// domain.Identity in the echo context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			identity, ok := identityFromClaims(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			c.Set(identityKey, identity)

			return next(c)
		}
	}
}

// identityFromClaims reads the id/email/role claims written at login.
// JSON numbers decode as float64.
func identityFromClaims(claims jwt.MapClaims) (domain.Identity, bool) {
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return domain.Identity{}, false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if email == "" || role == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{UserID: int64(id), Email: email, Role: role}, true
}

// IdentityFrom returns the caller set by Auth, or domain.ErrUnauthenticated
// when the route was not behind the middleware.
func IdentityFrom(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	if !ok || identity.UserID == 0 {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return identity, nil
}
