// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-crowdfund/internal/handler"
	"github.com/iliyamo/movie-crowdfund/internal/middleware"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Movies        *handler.MovieHandler
	Investments   *handler.InvestmentHandler
	Notifications *handler.NotificationHandler
}

// Register mounts all routes on the provided Echo instance.  Routes
// stay unauthenticated to match the original frontend contract; only
// /api/me requires a bearer token.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	// Probes.
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.GET("/test", handler.Test)

	// Users and sessions.
	api.POST("/signup", h.Auth.Signup)
	api.POST("/login", h.Auth.Login)
	api.GET("/users", h.Auth.ListUsers)
	api.GET("/me", h.Auth.Me, middleware.JWTAuth(jwtSecret))

	// Movie catalogue.
	api.GET("/movies", h.Movies.List)
	api.POST("/movies", h.Movies.Create)
	api.GET("/movies/:id", h.Movies.Get)
	api.PUT("/movies/:id", h.Movies.Update)

	// Investment workflow.
	api.POST("/investments", h.Investments.Create)
	api.POST("/investments/:id/complete-payment", h.Investments.CompletePayment)
	api.GET("/investments", h.Investments.List)
	api.GET("/investments/:id", h.Investments.Get)

	// Notifications.
	api.GET("/notifications", h.Notifications.List)
}
