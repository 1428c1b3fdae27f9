// Package middleware contains reusable Echo middleware: identity
// extraction from JWTs, role enforcement, Redis rate limiting and
// response caching. Token issuance lives in the surrounding auth
// service; this service only verifies tokens.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// parseClaims verifies a raw HS256 token and returns its claims.
func parseClaims(raw, secret string) (jwt.MapClaims, bool) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	return claims, ok
}

// storeIdentity copies the subject and role claims into the request
// context under "user_id" and "role" for handlers to consume.
func storeIdentity(c echo.Context, claims jwt.MapClaims) {
	c.Set("user_id", claims["sub"])
	c.Set("role", claims["role"])
}

// JWTAuth returns middleware that requires a valid Bearer access token
// signed with secret and injects the caller identity into the request
// context. Protected routes fail with 401 when the token is missing or
// invalid.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, ok := parseClaims(strings.TrimPrefix(auth, "Bearer "), secret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			storeIdentity(c, claims)
			return next(c)
		}
	}
}

// OptionalJWT is like JWTAuth but never rejects the request: public
// routes use it so that an authenticated admin sees admin-scoped
// results while guests fall through with no identity set.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				if claims, ok := parseClaims(strings.TrimPrefix(auth, "Bearer "), secret); ok {
					storeIdentity(c, claims)
				}
			}
			return next(c)
		}
	}
}
