package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hustlehub34/Sporto-sub000/internal/booking"
	"github.com/Hustlehub34/Sporto-sub000/internal/middleware"
	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

// CustomerHandler drives server-side selections and checkout.  Routes are
// behind JWTAuth and RequireRole(CUSTOMER); a session is only visible to
// the user that opened it.
type CustomerHandler struct {
	Calendars   CalendarSource
	Sessions    *booking.SessionStore
	Gateway     booking.PaymentGateway
	Notifier    booking.Notifier // optional
	Cache       ListingPurger    // optional
	PlatformFee int64
}

// NewCustomerHandler panics if a required dependency is nil.
func NewCustomerHandler(cals CalendarSource, sessions *booking.SessionStore, gw booking.PaymentGateway, n booking.Notifier, cache ListingPurger, fee int64) *CustomerHandler {
	if cals == nil || sessions == nil || gw == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Calendars: cals, Sessions: sessions, Gateway: gw, Notifier: n, Cache: cache, PlatformFee: fee}
}

// SelectionView is the JSON shape of a selection.  StaleSlotIDs lists
// selected slots that are no longer OPEN and would fail checkout.
type SelectionView struct {
	SessionID    string            `json:"session_id"`
	VenueID      string            `json:"venue_id"`
	Date         string            `json:"date"`
	Slots        []SlotView        `json:"slots"`
	StaleSlotIDs []string          `json:"stale_slot_ids,omitempty"`
	Plan         model.PaymentPlan `json:"plan"`
	Totals       model.Totals      `json:"totals"`
}

func selectionView(s *booking.Session) SelectionView {
	ids := s.Selector.Selected()
	slots := make([]SlotView, 0, len(ids))
	for _, id := range ids {
		if slot, err := s.Cal.GetSlot(id); err == nil {
			slots = append(slots, toSlotView(slot, false))
		}
	}
	return SelectionView{
		SessionID:    s.ID,
		VenueID:      s.Cal.VenueID(),
		Date:         s.Cal.Date().Format(model.DateLayout),
		Slots:        slots,
		StaleSlotIDs: s.Cal.Unavailable(ids),
		Plan:         s.Selector.PaymentPlan(),
		Totals:       s.Selector.ComputeTotal(),
	}
}

// session loads the :id session and checks it belongs to the caller.
// Foreign sessions are reported as missing.
func (h *CustomerHandler) session(c echo.Context) (*booking.Session, error) {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		return nil, err
	}
	if uid, _ := c.Get(middleware.CtxUserID).(string); s.Owner != uid {
		return nil, booking.ErrSessionNotFound
	}
	return s, nil
}

// Open handles POST /v1/selections with {venue_id, date}.
func (h *CustomerHandler) Open(c echo.Context) error {
	var body struct {
		VenueID string `json:"venue_id"`
		Date    string `json:"date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.VenueID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_id is required"})
	}
	date, err := parseDate(body.Date)
	if err != nil {
		return calendarError(c, errBadDate)
	}
	cal, err := h.Calendars.Get(c.Request().Context(), body.VenueID, date)
	if err != nil {
		return calendarError(c, err)
	}
	uid, _ := c.Get(middleware.CtxUserID).(string)
	s := h.Sessions.Open(uid, cal, h.PlatformFee)
	return c.JSON(http.StatusCreated, selectionView(s))
}

// Get handles GET /v1/selections/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return slotError(c, err)
	}
	return c.JSON(http.StatusOK, selectionView(s))
}

// Toggle handles POST /v1/selections/:id/toggle with {slot_id}.
func (h *CustomerHandler) Toggle(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return slotError(c, err)
	}
	var body struct {
		SlotID string `json:"slot_id"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.SlotID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_id is required"})
	}
	if err := s.Selector.Toggle(body.SlotID); err != nil {
		return slotError(c, err)
	}
	return c.JSON(http.StatusOK, selectionView(s))
}

// SetPlan handles PUT /v1/selections/:id/plan with {plan}: FULL or
// ADVANCE30.
func (h *CustomerHandler) SetPlan(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return slotError(c, err)
	}
	var body struct {
		Plan string `json:"plan"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	plan, ok := model.ParsePaymentPlan(body.Plan)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plan must be FULL or ADVANCE30"})
	}
	s.Selector.SetPaymentPlan(plan)
	return c.JSON(http.StatusOK, selectionView(s))
}

// Clear handles DELETE /v1/selections/:id/slots.
func (h *CustomerHandler) Clear(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return slotError(c, err)
	}
	s.Selector.Clear()
	return c.JSON(http.StatusOK, selectionView(s))
}

// Discard handles DELETE /v1/selections/:id.  The calendar is untouched.
func (h *CustomerHandler) Discard(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return slotError(c, err)
	}
	h.Sessions.Discard(s.ID)
	return c.NoContent(http.StatusNoContent)
}

// ReceiptView is the JSON shape of a confirmed booking.
type ReceiptView struct {
	BookingReference string            `json:"booking_reference"`
	PaymentRef       string            `json:"payment_ref"`
	CustomerName     string            `json:"customer_name"`
	VenueID          string            `json:"venue_id"`
	Date             string            `json:"date"`
	Slots            []SlotView        `json:"slots"`
	Plan             model.PaymentPlan `json:"plan"`
	Totals           model.Totals      `json:"totals"`
	ConfirmedAt      time.Time         `json:"confirmed_at"`
}

// Checkout handles POST /v1/selections/:id/checkout with {customer_name}.
// The name falls back to the name claim of the token.
func (h *CustomerHandler) Checkout(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return slotError(c, err)
	}
	var body struct {
		CustomerName string `json:"customer_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.CustomerName)
	if name == "" {
		name, _ = c.Get(middleware.CtxUserName).(string)
	}
	// a selection opened late in the day must not book a date that has passed
	if dc, ok := h.Calendars.(dateChecker); ok {
		if err := dc.CheckDate(s.Cal.Date()); err != nil {
			return calendarError(c, err)
		}
	}

	co := booking.Checkout{Cal: s.Cal, Gateway: h.Gateway, Notifier: h.Notifier}
	r, err := co.Run(c.Request().Context(), s.Selector, name)
	if err != nil {
		return slotError(c, err)
	}
	purgeListing(c.Request().Context(), h.Cache, r.VenueID)
	return c.JSON(http.StatusCreated, ReceiptView{
		BookingReference: r.BookingReference,
		PaymentRef:       r.PaymentRef,
		CustomerName:     r.CustomerName,
		VenueID:          r.VenueID,
		Date:             r.Date,
		Slots:            toSlotViews(r.Slots, false),
		Plan:             r.Plan,
		Totals:           r.Totals,
		ConfirmedAt:      r.ConfirmedAt,
	})
}
