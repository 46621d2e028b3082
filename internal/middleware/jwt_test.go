package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-crowdfund/internal/middleware"
	"github.com/iliyamo/movie-crowdfund/internal/utils"
)

func callProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.JWTAuth("test-secret")(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id":  c.Get("user_id"),
			"username": c.Get("username"),
			"role":     c.Get("role"),
		})
	})
	return rec, h(c)
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken("test-secret", "u-1", "investor1", "investor", 5)
	require.NoError(t, err)

	rec, err := callProtected(t, "Bearer "+at.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"u-1"`)
	assert.Contains(t, rec.Body.String(), `"role":"investor"`)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, err := callProtected(t, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", "u-1", "investor1", "investor", 5)
	require.NoError(t, err)

	rec, err := callProtected(t, "Bearer "+at.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken("test-secret", "u-1", "investor1", "investor", -5)
	require.NoError(t, err)

	rec, err := callProtected(t, "Bearer "+at.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
