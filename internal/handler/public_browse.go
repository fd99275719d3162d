package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

// VenueLister lists the venue catalogue.
type VenueLister interface {
	ListVenues(ctx context.Context) ([]model.Venue, error)
}

// PublicHandler serves unauthenticated browse endpoints.  Reservation
// details are never exposed here.
type PublicHandler struct {
	Venues    VenueLister
	Calendars CalendarSource
}

// NewPublicHandler panics if a dependency is nil.
func NewPublicHandler(venues VenueLister, cals CalendarSource) *PublicHandler {
	if venues == nil || cals == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Venues: venues, Calendars: cals}
}

// ListVenues handles GET /v1/venues.
func (h *PublicHandler) ListVenues(c echo.Context) error {
	venues, err := h.Venues.ListVenues(c.Request().Context())
	if err != nil {
		log.Printf("venues: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list venues"})
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": venues})
}

// ListSlots handles GET /v1/venues/:venue_id/slots?date=YYYY-MM-DD.  The
// date defaults to today.
func (h *PublicHandler) ListSlots(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return calendarError(c, errBadDate)
	}
	venueID := c.Param("venue_id")
	cal, err := h.Calendars.Get(c.Request().Context(), venueID, date)
	if err != nil {
		return calendarError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"venue_id": venueID,
		"date":     date.Format(model.DateLayout),
		"slots":    toSlotViews(cal.ListSlots(), false),
	})
}
