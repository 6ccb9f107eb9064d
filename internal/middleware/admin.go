package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/pacomprar/auction-api/internal/permission"
)

// RequireAdmin returns a middleware that rejects requests from
// non-administrator users with 403 Forbidden. It assumes JWTAuth ran earlier
// in the chain and stored the identity claims in the context.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            uid, _ := UserID(c)
            if !permission.AdminOnly(permission.Actor{ID: uid, Admin: IsAdmin(c)}) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
