package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	h := RequireAdmin()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	t.Run("admin passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set("is_admin", true)
		require.NoError(t, h(c))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set("is_admin", false)
		require.NoError(t, h(c))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no identity forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, h(c))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
