package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-crowdfund/internal/config"
	"github.com/iliyamo/movie-crowdfund/internal/middleware"
)

func cacheTestServer(t *testing.T) (*echo.Echo, *int) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.CacheConfig{
		Enabled:       true,
		TTL:           30 * time.Second,
		Prefix:        "cache",
		MaxBodyBytes:  1 << 20,
		RoutePrefixes: []string{"/api/movies"},
	}

	hits := 0
	e := echo.New()
	e.Use(middleware.NewRedisCache(cfg, rdb))
	e.GET("/api/movies", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"titles": []string{"First Light"}})
	})
	e.GET("/api/investments", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"count": hits})
	})
	// Echoes the caller's identity, like the token-protected /api/me.
	e.GET("/api/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Request().Header.Get("Authorization")})
	})
	return e, &hits
}

func getWithAuth(e *echo.Echo, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCacheNeverSharesIdentityBetweenUsers(t *testing.T) {
	e, _ := cacheTestServer(t)

	recA := getWithAuth(e, "/api/me", "Bearer user-A")
	require.Equal(t, http.StatusOK, recA.Code)
	assert.Contains(t, recA.Body.String(), "user-A")

	// A second caller with different credentials must get their own
	// response, never a replay of the first caller's.
	recB := getWithAuth(e, "/api/me", "Bearer user-B")
	require.Equal(t, http.StatusOK, recB.Code)
	assert.Contains(t, recB.Body.String(), "user-B")
	assert.NotContains(t, recB.Body.String(), "user-A")
	assert.NotEqual(t, "HIT", recB.Header().Get("X-Cache"))
}

func TestCacheServesMovieListFromRedis(t *testing.T) {
	e, hits := cacheTestServer(t)

	rec := getWithAuth(e, "/api/movies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	first := rec.Body.String()

	rec = getWithAuth(e, "/api/movies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, first, rec.Body.String())
	assert.Equal(t, 1, *hits)
}

func TestCacheSkipsAuthorizedMovieRequests(t *testing.T) {
	e, hits := cacheTestServer(t)

	for i := 0; i < 2; i++ {
		rec := getWithAuth(e, "/api/movies", "Bearer user-A")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, *hits)
}

func TestCacheIgnoresRoutesOutsideAllowlist(t *testing.T) {
	e, hits := cacheTestServer(t)

	// Investment listings change on every confirmation; they are not
	// on the allowlist and every request must reach the handler.
	bodies := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		rec := getWithAuth(e, "/api/investments", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
		bodies = append(bodies, rec.Body.String())
	}
	assert.Equal(t, 2, *hits)
	assert.False(t, strings.Contains(bodies[1], `"count":1`))
}
