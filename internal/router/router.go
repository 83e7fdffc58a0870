package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/campus-reservations/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication: the
// health check and, when enabled, the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, withMetrics bool) {
	e.GET("/healthz", handler.Health(db))
	if withMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
}

// RegisterAuth registers login and logout under /v1/auth.  Neither needs an
// existing session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
}
