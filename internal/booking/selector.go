package booking

import (
	"fmt"
	"sync"

	"github.com/Hustlehub34/Sporto-sub000/internal/calendar"
	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

// SlotLookup is the read side of a calendar the selector depends on.
type SlotLookup interface {
	GetSlot(id string) (model.TimeSlot, error)
}

// Selector accumulates the slots a customer has tapped.  It never
// mutates the calendar; totals are re-read from it on every call, so a
// slot closed by the owner mid-selection is reflected immediately.
type Selector struct {
	cal SlotLookup
	fee int64

	mu       sync.Mutex
	selected []string
	plan     model.PaymentPlan
}

// NewSelector returns an empty FULL-plan selection bound to cal.
func NewSelector(cal SlotLookup, platformFee int64) *Selector {
	if cal == nil {
		panic("nil calendar passed to NewSelector")
	}
	if platformFee < 0 {
		platformFee = 0
	}
	return &Selector{cal: cal, fee: platformFee, plan: model.PlanFull}
}

// Toggle removes id when it is selected.  Otherwise it adds id if the slot
// is OPEN; a slot in any other state fails with ErrSlotUnavailable and an
// unknown id with ErrNotFound, leaving the selection unchanged.
func (s *Selector) Toggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		s.selected = append(s.selected[:i], s.selected[i+1:]...)
		return nil
	}
	slot, err := s.cal.GetSlot(id)
	if err != nil {
		return err
	}
	if slot.State != model.SlotOpen {
		return fmt.Errorf("slot %s is %s: %w", id, slot.State, calendar.ErrSlotUnavailable)
	}
	s.selected = append(s.selected, id)
	return nil
}

func (s *Selector) indexLocked(id string) int {
	for i, v := range s.selected {
		if v == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is currently selected.
func (s *Selector) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

// Clear empties the selection.
func (s *Selector) Clear() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Selected returns the selected ids in the order they were added.
func (s *Selector) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selected...)
}

// SetPaymentPlan changes the plan; it does not need any slot selected.
func (s *Selector) SetPaymentPlan(p model.PaymentPlan) {
	s.mu.Lock()
	s.plan = p
	s.mu.Unlock()
}

// PaymentPlan returns the current plan.
func (s *Selector) PaymentPlan() model.PaymentPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

// PlatformFee returns the fee added once per booking.
func (s *Selector) PlatformFee() int64 { return s.fee }

// ComputeTotal prices the current selection against the calendar as it
// is now.  Selected slots that have since left OPEN are still counted;
// checkout is where staleness is rejected.  An id that no longer exists
// contributes nothing.
func (s *Selector) ComputeTotal() model.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

func (s *Selector) totalLocked() model.Totals {
	var sub int64
	for _, id := range s.selected {
		if slot, err := s.cal.GetSlot(id); err == nil {
			sub += slot.Price
		}
	}
	return Price(sub, s.fee, s.plan)
}
