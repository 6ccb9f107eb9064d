package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject and admin claims into the request context. The
// provided secret must match the one used when issuing tokens. Handlers on
// wrapped routes read the authenticated identity via c.Get("user_id") and
// c.Get("is_admin").
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 and our secret. The callback pins the signing
            // method so a token signed with a different algorithm is rejected.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            c.Set("user_id", claims["sub"])
            admin, _ := claims["adm"].(bool)
            c.Set("is_admin", admin)
            return next(c)
        }
    }
}

// UserID extracts the authenticated user id stored by JWTAuth and normalizes
// the numeric type. JSON numbers decode as float64, so a few representations
// are accepted.
func UserID(c echo.Context) (uint64, bool) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, true
    case int:
        return uint64(t), true
    case int64:
        return uint64(t), true
    case float64:
        return uint64(t), true
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, true
        }
    }
    return 0, false
}

// IsAdmin reports whether JWTAuth marked the current request as coming from
// an administrator.
func IsAdmin(c echo.Context) bool {
    admin, _ := c.Get("is_admin").(bool)
    return admin
}
