package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hustlehub34/Sporto-sub000/internal/handler"
	"github.com/Hustlehub34/Sporto-sub000/internal/middleware"
)

// RegisterCustomer registers the selection and checkout endpoints.  All
// routes require a valid JWT with the CUSTOMER role and share the rate
// limiter with the public group.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/selections",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleCustomer),
		limiter,
	)
	g.POST("", h.Open)
	g.GET("/:id", h.Get)
	g.POST("/:id/toggle", h.Toggle)
	g.PUT("/:id/plan", h.SetPlan)
	g.DELETE("/:id/slots", h.Clear)
	g.POST("/:id/checkout", h.Checkout)
	g.DELETE("/:id", h.Discard)
}
