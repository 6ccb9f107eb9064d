package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/pacomprar/auction-api/internal/config"
)

func TestTokenBucketPassthroughWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Second,
	}
	mw := NewTokenBucket(cfg, nil)
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e := echo.New()
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, h(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	newCtx := func(uid any) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/v1/auctions", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/auctions")
		if uid != nil {
			c.Set("user_id", uid)
		}
		return c
	}

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	require.NotEqual(t, rateKeyFrom(cfg, newCtx(uint64(1))), rateKeyFrom(cfg, newCtx(uint64(2))))

	// anonymous requests fall back to a shared guest bucket
	require.Equal(t, rateKeyFrom(cfg, newCtx(nil)), rateKeyFrom(cfg, newCtx(nil)))

	cfg.KeyStrategy = "ip"
	require.Equal(t, rateKeyFrom(cfg, newCtx(uint64(1))), rateKeyFrom(cfg, newCtx(uint64(2))))
}
