package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is available, caching is
// disabled.  Only GET responses under the RoutePrefixes allowlist are
// cached, with TTL bounding the staleness of movie listings.  Requests
// carrying an Authorization header are never cached, so responses that
// depend on the caller's identity cannot leak between users.
type CacheConfig struct {
	Enabled       bool
	TTL           time.Duration
	Prefix        string
	MaxBodyBytes  int
	RoutePrefixes []string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.  CACHE_ROUTES is a
// comma-separated list of path prefixes; only the public movie
// catalogue is cached by default.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:       envBool("CACHE_ENABLED", true),
		TTL:           envDur("CACHE_TTL", 30*time.Second),
		Prefix:        envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes:  envInt("CACHE_MAX_BODY_BYTES", 1<<20),
		RoutePrefixes: splitRoutes(envStr("CACHE_ROUTES", "/api/movies")),
	}
}

func splitRoutes(s string) []string {
	out := make([]string, 0, 2)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Shared env helpers reused by the rate limit config.
func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
