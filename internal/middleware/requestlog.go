package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pacomprar/auction-api/internal/utils"
)

// RequestLogger logs every request with method, path, status and latency.
// Each request gets a uuid echoed back in the X-Request-ID header so log
// lines can be correlated with client reports.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqID)

			start := time.Now()
			err := next(c)

			fields := map[string]any{
				"request_id": reqID,
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     c.Response().Status,
				"latency":    time.Since(start).String(),
			}
			if uid, ok := UserID(c); ok {
				fields["user_id"] = uid
			}
			if err != nil {
				fields["error"] = err.Error()
				utils.Error("http request", fields)
			} else {
				utils.Info("http request", fields)
			}
			return err
		}
	}
}
