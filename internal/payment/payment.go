// Package payment provides the prototype's payment collaborator.  No real
// gateway is contacted: charges are confirmed in memory, the same way the
// mobile app confirms a booking through a dialog.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrDeclined        = errors.New("payment declined")
	ErrInvalidAmount   = errors.New("invalid payment amount")
	ErrUnknownPayment  = errors.New("unknown payment")
	ErrAlreadyRefunded = errors.New("payment already refunded")
)

// Charge is a payment taken by the simulated gateway.
type Charge struct {
	PaymentRef string
	BookingRef string
	Amount     int64
	Refunded   bool
}

// Simulated confirms every charge unless Decline is set or the amount
// exceeds Limit (when Limit > 0).
type Simulated struct {
	Decline bool
	Limit   int64

	mu      sync.Mutex
	charges map[string]*Charge
}

// NewSimulated returns a gateway that accepts every charge.
func NewSimulated() *Simulated {
	return &Simulated{charges: make(map[string]*Charge)}
}

// Charge records a payment of amount rupees for bookingRef.
func (g *Simulated) Charge(ctx context.Context, amount int64, bookingRef string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if amount < 0 {
		return "", fmt.Errorf("%d: %w", amount, ErrInvalidAmount)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Decline || (g.Limit > 0 && amount > g.Limit) {
		return "", fmt.Errorf("booking %s, amount %d: %w", bookingRef, amount, ErrDeclined)
	}
	if g.charges == nil {
		g.charges = make(map[string]*Charge)
	}
	ref := "pay_" + uuid.NewString()
	g.charges[ref] = &Charge{PaymentRef: ref, BookingRef: bookingRef, Amount: amount}
	return ref, nil
}

// Refund reverses a previous charge.  amount must match the charge.
func (g *Simulated) Refund(ctx context.Context, paymentRef string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.charges[paymentRef]
	if !ok {
		return fmt.Errorf("%s: %w", paymentRef, ErrUnknownPayment)
	}
	if c.Refunded {
		return fmt.Errorf("%s: %w", paymentRef, ErrAlreadyRefunded)
	}
	if c.Amount != amount {
		return fmt.Errorf("%s: refund %d of %d: %w", paymentRef, amount, c.Amount, ErrInvalidAmount)
	}
	c.Refunded = true
	return nil
}

// Charges returns a copy of every recorded charge.
func (g *Simulated) Charges() []Charge {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Charge, 0, len(g.charges))
	for _, c := range g.charges {
		out = append(out, *c)
	}
	return out
}
