// Package booking lets a customer accumulate a tentative set of OPEN slots,
// prices the selection and turns it into reservations at checkout.
package booking

import "github.com/Hustlehub34/Sporto-sub000/internal/model"

// DefaultPlatformFee is the per-transaction convenience fee in rupees.
const DefaultPlatformFee int64 = 20

// Advance returns floor(subtotal * 30%) using integer arithmetic only.
// The subtotal is split into tens and units so the multiplication cannot
// overflow for any non-negative int64.
func Advance(subtotal int64) int64 {
	return subtotal/10*3 + subtotal%10*3/10
}

// Price splits a subtotal into what is paid now and what is paid at the
// venue.  The fee is always collected now, once.  Negative inputs are
// treated as zero.
func Price(subtotal, fee int64, plan model.PaymentPlan) model.Totals {
	if subtotal < 0 {
		subtotal = 0
	}
	if fee < 0 {
		fee = 0
	}
	t := model.Totals{Subtotal: subtotal, PlatformFee: fee}
	switch plan {
	case model.PlanAdvance30:
		adv := Advance(subtotal)
		t.PayableNow = adv + fee
		t.RemainingAtVenue = subtotal - adv
	default:
		t.PayableNow = subtotal + fee
	}
	return t
}
