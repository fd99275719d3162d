package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hustlehub34/Sporto-sub000/internal/handler"
	"github.com/Hustlehub34/Sporto-sub000/internal/middleware"
)

// RegisterOwner registers OWNER-scoped slot management under
// /v1/owner.  Listings here are never cached.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner),
	)
	g.GET("/venues/:venue_id/slots", o.ListSlots)
	g.POST("/venues/:venue_id/slots/:slot_id/close", o.CloseSlot)
	g.POST("/venues/:venue_id/slots/:slot_id/reopen", o.ReopenSlot)
	g.POST("/venues/:venue_id/slots/:slot_id/release", o.ReleaseSlot)
}
