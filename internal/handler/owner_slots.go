package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hustlehub34/Sporto-sub000/internal/calendar"
	"github.com/Hustlehub34/Sporto-sub000/internal/middleware"
	"github.com/Hustlehub34/Sporto-sub000/internal/model"
	"github.com/Hustlehub34/Sporto-sub000/internal/repository"
)

// OwnerHandler lets a venue owner manage slot availability.  Routes are
// behind JWTAuth and RequireRole(OWNER); every request is further scoped
// to venues whose OwnerID matches the token subject.
type OwnerHandler struct {
	Calendars CalendarSource
	Venues    calendar.VenueSource
	Cache     ListingPurger // optional
}

// NewOwnerHandler panics if cals or venues is nil.  cache may be nil.
func NewOwnerHandler(cals CalendarSource, venues calendar.VenueSource, cache ListingPurger) *OwnerHandler {
	if cals == nil || venues == nil {
		panic("nil dependency passed to NewOwnerHandler")
	}
	return &OwnerHandler{Calendars: cals, Venues: venues, Cache: cache}
}

// ListSlots handles GET /v1/owner/venues/:venue_id/slots.  Unlike the
// public listing it includes reservations and per-state counts.
func (h *OwnerHandler) ListSlots(c echo.Context) error {
	cal, date, err := h.resolve(c)
	if err != nil {
		return calendarError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"venue_id": cal.VenueID(),
		"date":     date.Format(model.DateLayout),
		"slots":    toSlotViews(cal.ListSlots(), true),
		"counts":   cal.Counts(),
	})
}

// CloseSlot handles POST .../slots/:slot_id/close.  A reserved slot can
// only be closed with ?force=true, which cancels the booking and returns
// it so the owner can settle it offline.
func (h *OwnerHandler) CloseSlot(c echo.Context) error {
	force, _ := strconv.ParseBool(c.QueryParam("force"))
	cal, _, err := h.resolve(c)
	if err != nil {
		return calendarError(c, err)
	}
	slotID := c.Param("slot_id")
	if force {
		slot, cancelled, err := cal.ForceClose(slotID)
		if err != nil {
			return slotError(c, err)
		}
		h.purge(c, cal)
		if cancelled != nil {
			log.Printf("owner: force-closed %s, cancelled booking %s", slotID, cancelled.BookingReference)
		}
		return c.JSON(http.StatusOK, echo.Map{"slot": toSlotView(slot, true), "cancelled_reservation": cancelled})
	}

	slot, err := cal.Close(slotID)
	if err != nil {
		if errors.Is(err, calendar.ErrConflictingState) {
			if cur, gerr := cal.GetSlot(slotID); gerr == nil && cur.State == model.SlotReserved {
				return c.JSON(http.StatusConflict, echo.Map{"error": "this slot is already booked, release the booking before closing it"})
			}
		}
		return slotError(c, err)
	}
	h.purge(c, cal)
	return c.JSON(http.StatusOK, echo.Map{"slot": toSlotView(slot, true)})
}

// ReopenSlot handles POST .../slots/:slot_id/reopen.
func (h *OwnerHandler) ReopenSlot(c echo.Context) error {
	return h.transition(c, (*calendar.Calendar).Reopen)
}

// ReleaseSlot handles POST .../slots/:slot_id/release, cancelling the
// reservation on a RESERVED slot.
func (h *OwnerHandler) ReleaseSlot(c echo.Context) error {
	return h.transition(c, (*calendar.Calendar).Release)
}

func (h *OwnerHandler) transition(c echo.Context, op func(*calendar.Calendar, string) (model.TimeSlot, error)) error {
	cal, _, err := h.resolve(c)
	if err != nil {
		return calendarError(c, err)
	}
	slot, err := op(cal, c.Param("slot_id"))
	if err != nil {
		return slotError(c, err)
	}
	h.purge(c, cal)
	return c.JSON(http.StatusOK, echo.Map{"slot": toSlotView(slot, true)})
}

// resolve loads the calendar of a venue owned by the caller.  Venues
// owned by someone else are reported as not found.
func (h *OwnerHandler) resolve(c echo.Context) (*calendar.Calendar, time.Time, error) {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return nil, time.Time{}, errBadDate
	}
	ctx := c.Request().Context()
	venueID := c.Param("venue_id")
	v, err := h.Venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if uid, _ := c.Get(middleware.CtxUserID).(string); v.OwnerID == "" || v.OwnerID != uid {
		return nil, time.Time{}, fmt.Errorf("%s not owned by %q: %w", venueID, uid, repository.ErrVenueNotFound)
	}
	cal, err := h.Calendars.Get(ctx, venueID, date)
	return cal, date, err
}

func (h *OwnerHandler) purge(c echo.Context, cal *calendar.Calendar) {
	purgeListing(c.Request().Context(), h.Cache, cal.VenueID())
}
