package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/pacomprar/auction-api/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Multi", "a")
	hdr.Add("X-Multi", "b")
	body := []byte(`{"ok":true}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	require.Equal(t, []string{"a", "b"}, gotHdr.Values("X-Multi"))
	require.Equal(t, body, gotBody)
}

func TestPayloadEmptyBody(t *testing.T) {
	payload, err := encodePayload(http.StatusNoContent, http.Header{}, nil)
	require.NoError(t, err)

	status, _, body, ok := decodePayload(payload)
	require.True(t, ok)
	require.Equal(t, http.StatusNoContent, status)
	require.Empty(t, body)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("short"), {0, 0, 0, 200, 255, 255, 255, 255}} {
		_, _, _, ok := decodePayload(bs)
		require.False(t, ok)
	}
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	newCtx := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/auctions")
		return c
	}
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	k1 := cacheKeyFrom(cfg, newCtx("/v1/auctions?search=abc"))
	k2 := cacheKeyFrom(cfg, newCtx("/v1/auctions?search=xyz"))
	require.NotEqual(t, k1, k2, "query must contribute to the key")
	require.Equal(t, k1, cacheKeyFrom(cfg, newCtx("/v1/auctions?search=abc")))

	cfg.KeyStrategy = "route"
	require.Equal(t,
		cacheKeyFrom(cfg, newCtx("/v1/auctions?search=abc")),
		cacheKeyFrom(cfg, newCtx("/v1/auctions?search=xyz")),
		"route strategy ignores the query")
}

func TestCacheDisabledPassthrough(t *testing.T) {
	e := echo.New()
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "live") })

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, h(c))
	require.Equal(t, "live", rec.Body.String())
	require.Empty(t, rec.Header().Get("X-Cache"))
}
