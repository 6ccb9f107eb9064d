package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, head ,POST")
	require.True(t, m["GET"])
	require.True(t, m["HEAD"])
	require.True(t, m["POST"])
	require.False(t, m["DELETE"])
	require.Empty(t, parseMethods(""))
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	require.True(t, cfg.Enabled)
	require.True(t, cfg.Methods["GET"])
	require.Equal(t, 30*time.Second, cfg.TTL)
	require.Equal(t, "route_query", cfg.KeyStrategy)
	require.Equal(t, "cache", cfg.Prefix)
	require.Equal(t, 1048576, cfg.MaxBodyBytes)
}

func TestLoadCacheConfigOverrides(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_METHODS", "GET,HEAD")
	t.Setenv("CACHE_TTL", "2m")

	cfg := LoadCacheConfig()
	require.False(t, cfg.Enabled)
	require.True(t, cfg.Methods["HEAD"])
	require.Equal(t, 2*time.Minute, cfg.TTL)
}

func TestLoadCacheConfigBounds(t *testing.T) {
	t.Setenv("CACHE_TTL", "-5s")
	t.Setenv("CACHE_MAX_BODY_BYTES", "0")

	cfg := LoadCacheConfig()
	require.Equal(t, 30*time.Second, cfg.TTL)
	require.Equal(t, 1<<20, cfg.MaxBodyBytes)
}
