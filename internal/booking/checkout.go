package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hustlehub34/Sporto-sub000/internal/calendar"
	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

var (
	ErrEmptySelection  = errors.New("no slots selected")
	ErrMissingCustomer = errors.New("customer name is required")
	ErrPaymentFailed   = errors.New("payment failed")
)

// Slots is the part of a calendar that checkout reads and writes.
type Slots interface {
	SlotLookup
	VenueID() string
	Date() time.Time
	Unavailable(ids []string) []string
	ReserveAll(ids []string, res model.Reservation) ([]model.TimeSlot, error)
}

// PaymentGateway collects the amount payable now.  Charge returns the
// gateway's payment reference.
type PaymentGateway interface {
	Charge(ctx context.Context, amount int64, bookingRef string) (string, error)
	Refund(ctx context.Context, paymentRef string, amount int64) error
}

// Notifier is told about every confirmed booking.  Failures are logged
// and never undo the booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, r Receipt) error
}

// Receipt describes a confirmed booking.
type Receipt struct {
	BookingReference string            `json:"booking_reference"`
	PaymentRef       string            `json:"payment_ref"`
	CustomerName     string            `json:"customer_name"`
	VenueID          string            `json:"venue_id"`
	Date             string            `json:"date"`
	Slots            []model.TimeSlot  `json:"slots"`
	Plan             model.PaymentPlan `json:"plan"`
	Totals           model.Totals      `json:"totals"`
	ConfirmedAt      time.Time         `json:"confirmed_at"`
}

// Checkout turns a selection into reservations, all or nothing.
type Checkout struct {
	Cal      Slots
	Gateway  PaymentGateway
	Notifier Notifier // optional
}

// Run revalidates every selected slot, charges the payable amount and
// reserves all slots under one booking reference.  If any slot is no
// longer OPEN the whole checkout aborts with a *calendar.StaleSlotsError
// before payment is attempted.  If a slot is lost between payment and
// reservation the charge is refunded and the stale error returned.  On
// success the selection is consumed (cleared) and the notifier is told
// after the selection has been released.
func (co *Checkout) Run(ctx context.Context, sel *Selector, customerName string) (*Receipt, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, ErrMissingCustomer
	}
	r, err := co.reserve(ctx, sel, customerName)
	if err != nil {
		return nil, err
	}
	if co.Notifier != nil {
		if err := co.Notifier.BookingConfirmed(ctx, *r); err != nil {
			log.Printf("checkout: notify booking %s failed: %v", r.BookingReference, err)
		}
	}
	return r, nil
}

// reserve holds the selection lock from validation until the selection
// is cleared, so the charged amount always matches the reserved slots.
func (co *Checkout) reserve(ctx context.Context, sel *Selector, customerName string) (*Receipt, error) {
	sel.mu.Lock()
	defer sel.mu.Unlock()

	ids := append([]string(nil), sel.selected...)
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	if stale := co.Cal.Unavailable(ids); len(stale) > 0 {
		return nil, &calendar.StaleSlotsError{SlotIDs: stale}
	}
	totals := sel.totalLocked()
	ref := uuid.NewString()

	payRef, err := co.Gateway.Charge(ctx, totals.PayableNow, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}
	slots, err := co.Cal.ReserveAll(ids, model.Reservation{CustomerName: customerName, BookingReference: ref})
	if err != nil {
		if rerr := co.Gateway.Refund(ctx, payRef, totals.PayableNow); rerr != nil {
			log.Printf("checkout: refund %s after lost race failed: %v", payRef, rerr)
		}
		return nil, err
	}
	sel.selected = nil

	return &Receipt{
		BookingReference: ref,
		PaymentRef:       payRef,
		CustomerName:     customerName,
		VenueID:          co.Cal.VenueID(),
		Date:             co.Cal.Date().Format(model.DateLayout),
		Slots:            slots,
		Plan:             sel.plan,
		Totals:           totals,
		ConfirmedAt:      time.Now().UTC(),
	}, nil
}
