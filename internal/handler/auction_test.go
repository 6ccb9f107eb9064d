package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func filterCtx(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParseFilters(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		f, err := parseFilters(filterCtx("/v1/auctions"))
		require.NoError(t, err)
		require.Empty(t, f.Search)
		require.Nil(t, f.CategoryID)
		require.Nil(t, f.PriceMinCents)
		require.Nil(t, f.PriceMaxCents)
	})

	t.Run("all filters", func(t *testing.T) {
		f, err := parseFilters(filterCtx("/v1/auctions?search=bike&category=3&price_min_cents=1000&price_max_cents=5000"))
		require.NoError(t, err)
		require.Equal(t, "bike", f.Search)
		require.Equal(t, uint64(3), *f.CategoryID)
		require.Equal(t, int64(1000), *f.PriceMinCents)
		require.Equal(t, int64(5000), *f.PriceMaxCents)
	})

	t.Run("short search rejected", func(t *testing.T) {
		_, err := parseFilters(filterCtx("/v1/auctions?search=ab"))
		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
	})

	t.Run("three rune search accepted", func(t *testing.T) {
		f, err := parseFilters(filterCtx("/v1/auctions?search=%C3%B1a%C3%B1"))
		require.NoError(t, err)
		require.Equal(t, "ñañ", f.Search)
	})

	t.Run("bad category", func(t *testing.T) {
		_, err := parseFilters(filterCtx("/v1/auctions?category=shoes"))
		require.Error(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := parseFilters(filterCtx("/v1/auctions?price_min_cents=-1"))
		require.Error(t, err)
	})

	t.Run("zero min price rejected", func(t *testing.T) {
		_, err := parseFilters(filterCtx("/v1/auctions?price_min_cents=0"))
		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
	})

	t.Run("zero max price rejected", func(t *testing.T) {
		_, err := parseFilters(filterCtx("/v1/auctions?price_max_cents=0"))
		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
	})

	t.Run("inverted price range", func(t *testing.T) {
		_, err := parseFilters(filterCtx("/v1/auctions?price_min_cents=500&price_max_cents=100"))
		require.Error(t, err)
	})
}
