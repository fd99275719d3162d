// Package handler holds the echo HTTP handlers.  Handlers only translate
// between JSON and the calendar and booking packages; every rule about
// slot state lives below them.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hustlehub34/Sporto-sub000/internal/booking"
	"github.com/Hustlehub34/Sporto-sub000/internal/calendar"
	"github.com/Hustlehub34/Sporto-sub000/internal/model"
	"github.com/Hustlehub34/Sporto-sub000/internal/repository"
)

// CalendarSource hands out the live calendar of a venue for a date.
type CalendarSource interface {
	Get(ctx context.Context, venueID string, date time.Time) (*calendar.Calendar, error)
}

// dateChecker is implemented by calendar sources that bound bookable dates.
type dateChecker interface {
	CheckDate(date time.Time) error
}

// ListingPurger drops cached copies of a public listing.
type ListingPurger interface {
	Purge(ctx context.Context, path string) error
}

// SlotView is the JSON shape of a slot.  Reservation is only filled in
// for owners.
type SlotView struct {
	ID          string             `json:"id"`
	Start       string             `json:"start"`
	End         string             `json:"end"`
	Price       int64              `json:"price"`
	State       model.SlotState    `json:"state"`
	Reservation *model.Reservation `json:"reservation,omitempty"`
}

func toSlotView(s model.TimeSlot, withReservation bool) SlotView {
	v := SlotView{
		ID:    s.ID,
		Start: model.ClockString(s.Interval.Start),
		End:   model.ClockString(s.Interval.End),
		Price: s.Price,
		State: s.State,
	}
	if withReservation {
		v.Reservation = s.Reservation
	}
	return v
}

func toSlotViews(slots []model.TimeSlot, withReservation bool) []SlotView {
	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotView(s, withReservation))
	}
	return out
}

// parseDate reads a YYYY-MM-DD value; empty means today (UTC).
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.DateOnly(time.Now().UTC()), nil
	}
	return model.ParseDate(raw)
}

// publicListingPath is the URL of the cached public listing for a venue.
func publicListingPath(venueID string) string {
	return "/v1/venues/" + venueID + "/slots"
}

func purgeListing(ctx context.Context, p ListingPurger, venueID string) {
	if p == nil {
		return
	}
	if err := p.Purge(ctx, publicListingPath(venueID)); err != nil {
		log.Printf("cache: purge listing of %s: %v", venueID, err)
	}
}

var errBadDate = errors.New("date must be YYYY-MM-DD")

// calendarError maps registry lookups to responses.
func calendarError(c echo.Context, err error) error {
	if errors.Is(err, errBadDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": errBadDate.Error()})
	}
	if errors.Is(err, calendar.ErrOutsideWindow) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is outside the booking window"})
	}
	if errors.Is(err, repository.ErrVenueNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}
	log.Printf("calendar: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load calendar"})
}

// slotError maps calendar and booking errors to responses.
func slotError(c echo.Context, err error) error {
	var stale *calendar.StaleSlotsError
	switch {
	case errors.As(err, &stale):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          "some selected slots are no longer available",
			"stale_slot_ids": stale.SlotIDs,
		})
	case errors.Is(err, calendar.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot no longer exists, please refresh"})
	case errors.Is(err, calendar.ErrSlotUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot is no longer available"})
	case errors.Is(err, calendar.ErrConflictingState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot state changed, please refresh"})
	case errors.Is(err, booking.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "selection not found"})
	case errors.Is(err, booking.ErrEmptySelection), errors.Is(err, booking.ErrMissingCustomer):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrPaymentFailed):
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": err.Error()})
	}
	log.Printf("slot: unexpected error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
