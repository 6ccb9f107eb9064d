package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, 60, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	require.Equal(t, time.Second, cfg.RefillInterval)
	require.Equal(t, "ip_user_route", cfg.KeyStrategy)
	require.Equal(t, "rl", cfg.Prefix)
}

func TestLoadRateLimitConfigBounds(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "-5")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	require.Equal(t, 2*time.Second, cfg.RefillInterval)
	// TTL is raised so idle buckets outlive several refill cycles
	require.Equal(t, 10*time.Second, cfg.TTL)
}

func TestEnvBool(t *testing.T) {
	t.Setenv("FLAG", "yes")
	require.True(t, envBool("FLAG", false))
	t.Setenv("FLAG", "off")
	require.False(t, envBool("FLAG", true))
	t.Setenv("FLAG", "garbage")
	require.True(t, envBool("FLAG", true))
}
