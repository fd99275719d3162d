// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hustlehub34/Sporto-sub000/internal/handler"
)

// RegisterRoutes registers routes that need no authentication and no
// rate limiting.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the guest browse endpoints.  limiter and cache
// are applied in that order so cached hits still count against the
// caller's budget.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, limiter, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", limiter, cache)
	g.GET("/venues", p.ListVenues)
	g.GET("/venues/:venue_id/slots", p.ListSlots)
}
