package middleware

// identity.go implements the pass-through identity filter. When a request
// carries a valid HMAC-signed bearer token, the parsed claims are attached
// to the context for downstream use; anything else (no header, bad token,
// wrong algorithm) leaves the request anonymous. The filter never rejects.

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Identity returns middleware that extracts an optional caller identity
// from the Authorization header. With an empty secret it is a no-op.
func Identity(secret string) echo.MiddlewareFunc {
	if secret == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if strings.HasPrefix(auth, prefix) {
				tok, err := jwt.Parse(strings.TrimPrefix(auth, prefix), func(t *jwt.Token) (any, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
					}
					return []byte(secret), nil
				})
				if err == nil && tok.Valid {
					c.Set("user", tok)
					if cl, ok := tok.Claims.(jwt.MapClaims); ok {
						if sub, ok := cl["sub"].(string); ok && sub != "" {
							c.Set("user_id", sub)
						}
					}
				}
			}
			return next(c)
		}
	}
}

// UserID returns the identity attached by Identity, or "guest" when the
// request is anonymous.
func UserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return "guest"
}
