package model

import "strings"

// PaymentPlan selects how much of the subtotal is charged at booking time.
type PaymentPlan string

const (
	PlanFull      PaymentPlan = "FULL"      // whole subtotal plus fee now
	PlanAdvance30 PaymentPlan = "ADVANCE30" // 30% of the subtotal plus fee now, rest at the venue
)

// ParsePaymentPlan normalizes a plan name.  It accepts the canonical
// values case-insensitively plus the "partial" alias used by the
// mobile client.
func ParsePaymentPlan(s string) (PaymentPlan, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FULL":
		return PlanFull, true
	case "ADVANCE30", "PARTIAL":
		return PlanAdvance30, true
	}
	return "", false
}

// Totals is the payment breakdown of a selection.  All amounts are whole
// rupees.  PayableNow - PlatformFee + RemainingAtVenue always equals
// Subtotal.
type Totals struct {
	Subtotal         int64 `json:"subtotal"`
	PlatformFee      int64 `json:"platform_fee"`
	PayableNow       int64 `json:"payable_now"`
	RemainingAtVenue int64 `json:"remaining_at_venue"`
}
