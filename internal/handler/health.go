package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds with a plain "ok" for load balancer probes.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Test is the connectivity probe the frontend pings on startup.
func Test(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Backend server is working!"})
}
