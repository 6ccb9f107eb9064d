package handler // handler defines the HTTP handlers behind the router

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/pacomprar/auction-api/internal/middleware"
    "github.com/pacomprar/auction-api/internal/permission"
)

// errNoActor is returned by actor() when no authenticated identity is in the
// request context.
var errNoActor = errors.New("no authenticated user in context")

// actor builds the permission.Actor for the current request from the claims
// the JWT middleware stored in the context.
func actor(c echo.Context) (permission.Actor, error) {
    uid, ok := middleware.UserID(c)
    if !ok {
        return permission.Actor{}, errNoActor
    }
    return permission.Actor{ID: uid, Admin: middleware.IsAdmin(c)}, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}
