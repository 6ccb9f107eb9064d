package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// CacheConfig drives the read-through response cache. Caching is a no-op
// when Enabled is false or no Redis client is available. Methods holds the
// HTTP methods eligible for caching and KeyStrategy picks which parts of the
// request form the cache key.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig builds a CacheConfig from the environment. Listing pages
// are the main consumers, so the defaults cache GET responses for 30 seconds
// keyed on route plus query string. Non-positive TTL or body limits fall
// back to the defaults.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      parseMethods(getenv("CACHE_METHODS", "GET")),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:  getenv("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       getenv("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    if cfg.MaxBodyBytes < 1 {
        cfg.MaxBodyBytes = 1 << 20
    }
    return cfg
}

// parseMethods normalizes a comma-separated method list into a lookup set.
func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}

// getenv and atoi back the env* helpers in ratelimit.go as well.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func atoi(s string) int {
    i, _ := strconv.Atoi(s)
    return i
}
