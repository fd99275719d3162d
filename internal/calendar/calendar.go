package calendar

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

// legal lists every permitted (from, to) transition.  There is no
// RESERVED -> CLOSED edge: a booked slot must be released first.
var legal = map[[2]model.SlotState]bool{
	{model.SlotOpen, model.SlotReserved}: true,
	{model.SlotReserved, model.SlotOpen}: true,
	{model.SlotOpen, model.SlotClosed}:   true,
	{model.SlotClosed, model.SlotOpen}:   true,
}

// Counts tallies slots per state.
type Counts struct {
	Open     int `json:"open"`
	Reserved int `json:"reserved"`
	Closed   int `json:"closed"`
}

// Calendar holds the slots of one venue on one date.  Reads take a shared
// lock and transitions an exclusive one, so every transition behaves as a
// compare-and-swap on (slot id, expected state).  Callers only ever see
// copies of the stored slots.
type Calendar struct {
	venueID string
	date    time.Time

	mu    sync.RWMutex
	slots map[string]*model.TimeSlot
	order []string // ids sorted by interval start
}

// NewCalendar validates the given slots and builds a calendar from them.
// Slots with an empty state start OPEN.  Empty VenueID or zero Date on a
// slot are filled from the calendar; mismatching values are rejected.
func NewCalendar(venueID string, date time.Time, slots []model.TimeSlot) (*Calendar, error) {
	if venueID == "" {
		return nil, fmt.Errorf("venue id is required: %w", ErrInvalidSlot)
	}
	day := model.DateOnly(date)
	c := &Calendar{
		venueID: venueID,
		date:    day,
		slots:   make(map[string]*model.TimeSlot, len(slots)),
		order:   make([]string, 0, len(slots)),
	}
	for _, in := range slots {
		s := in.Clone()
		if err := c.normalize(&s); err != nil {
			return nil, err
		}
		if _, dup := c.slots[s.ID]; dup {
			return nil, fmt.Errorf("duplicate slot id %s: %w", s.ID, ErrInvalidSlot)
		}
		c.slots[s.ID] = &s
		c.order = append(c.order, s.ID)
	}
	sort.SliceStable(c.order, func(i, j int) bool {
		return c.slots[c.order[i]].Interval.Start < c.slots[c.order[j]].Interval.Start
	})
	// with starts sorted, any overlap shows up between neighbours
	for i := 1; i < len(c.order); i++ {
		prev, cur := c.slots[c.order[i-1]], c.slots[c.order[i]]
		if prev.Interval.Overlaps(cur.Interval) {
			return nil, fmt.Errorf("slots %s and %s overlap: %w", prev.ID, cur.ID, ErrInvalidSlot)
		}
	}
	return c, nil
}

func (c *Calendar) normalize(s *model.TimeSlot) error {
	if s.ID == "" {
		return fmt.Errorf("slot id is required: %w", ErrInvalidSlot)
	}
	if s.VenueID == "" {
		s.VenueID = c.venueID
	} else if s.VenueID != c.venueID {
		return fmt.Errorf("slot %s belongs to venue %s: %w", s.ID, s.VenueID, ErrInvalidSlot)
	}
	if s.Date.IsZero() {
		s.Date = c.date
	} else if !model.DateOnly(s.Date).Equal(c.date) {
		return fmt.Errorf("slot %s is dated %s: %w", s.ID, s.Date.Format(model.DateLayout), ErrInvalidSlot)
	}
	s.Date = c.date
	iv := s.Interval
	if iv.Empty() || iv.Start < 0 || iv.End > model.MinutesPerDay {
		return fmt.Errorf("slot %s has invalid interval %s: %w", s.ID, iv, ErrInvalidSlot)
	}
	if s.Price < 0 {
		return fmt.Errorf("slot %s has negative price: %w", s.ID, ErrInvalidSlot)
	}
	if s.State == "" {
		s.State = model.SlotOpen
	}
	if !s.State.Valid() {
		return fmt.Errorf("slot %s has unknown state %q: %w", s.ID, s.State, ErrInvalidSlot)
	}
	if (s.State == model.SlotReserved) != (s.Reservation != nil) {
		return fmt.Errorf("slot %s: reservation must be present exactly when reserved: %w", s.ID, ErrInvalidSlot)
	}
	return nil
}

// VenueID returns the venue this calendar belongs to.
func (c *Calendar) VenueID() string { return c.venueID }

// Date returns the calendar date (midnight UTC).
func (c *Calendar) Date() time.Time { return c.date }

// ListSlots returns a fresh snapshot of every slot ordered by start time.
func (c *Calendar) ListSlots() []model.TimeSlot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.TimeSlot, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.slots[id].Clone())
	}
	return out
}

// ListSlotsFor is ListSlots scoped by venue and date.  It returns
// ErrNotFound when the pair is not the one this calendar holds.
func (c *Calendar) ListSlotsFor(venueID string, date time.Time) ([]model.TimeSlot, error) {
	if venueID != c.venueID || !model.DateOnly(date).Equal(c.date) {
		return nil, fmt.Errorf("no slots for venue %s on %s: %w", venueID, date.Format(model.DateLayout), ErrNotFound)
	}
	return c.ListSlots(), nil
}

// GetSlot returns a copy of the slot with the given id.
func (c *Calendar) GetSlot(id string) (model.TimeSlot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots[id]
	if !ok {
		return model.TimeSlot{}, fmt.Errorf("slot %s: %w", id, ErrNotFound)
	}
	return s.Clone(), nil
}

// Counts returns how many slots are in each state.
func (c *Calendar) Counts() Counts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var n Counts
	for _, s := range c.slots {
		switch s.State {
		case model.SlotOpen:
			n.Open++
		case model.SlotReserved:
			n.Reserved++
		case model.SlotClosed:
			n.Closed++
		}
	}
	return n
}

// CompareAndSwap moves slot id from expected to next in one step.  It
// fails with ErrNotFound for unknown ids and ErrConflictingState when the
// slot is not in expected or when (expected, next) is not a legal edge.
// Moving to RESERVED requires res; every other move clears the
// reservation.
func (c *Calendar) CompareAndSwap(id string, expected, next model.SlotState, res *model.Reservation) (model.TimeSlot, error) {
	if !legal[[2]model.SlotState{expected, next}] {
		return model.TimeSlot{}, fmt.Errorf("slot %s: %s -> %s is not allowed: %w", id, expected, next, ErrConflictingState)
	}
	if next == model.SlotReserved && res == nil {
		return model.TimeSlot{}, fmt.Errorf("slot %s: reservation is required: %w", id, ErrInvalidSlot)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[id]
	if !ok {
		return model.TimeSlot{}, fmt.Errorf("slot %s: %w", id, ErrNotFound)
	}
	if s.State != expected {
		return model.TimeSlot{}, fmt.Errorf("slot %s is %s, expected %s: %w", id, s.State, expected, ErrConflictingState)
	}
	s.State = next
	s.Reservation = nil
	if next == model.SlotReserved {
		r := *res
		s.Reservation = &r
	}
	return s.Clone(), nil
}

// Reserve books an OPEN slot for a customer.
func (c *Calendar) Reserve(id string, res model.Reservation) (model.TimeSlot, error) {
	return c.CompareAndSwap(id, model.SlotOpen, model.SlotReserved, &res)
}

// Release cancels the reservation on a RESERVED slot and reopens it.
func (c *Calendar) Release(id string) (model.TimeSlot, error) {
	return c.CompareAndSwap(id, model.SlotReserved, model.SlotOpen, nil)
}

// Close withholds an OPEN slot.  Closing a RESERVED slot is rejected with
// ErrConflictingState so a confirmed booking is never dropped silently.
func (c *Calendar) Close(id string) (model.TimeSlot, error) {
	return c.CompareAndSwap(id, model.SlotOpen, model.SlotClosed, nil)
}

// Reopen makes a CLOSED slot bookable again.
func (c *Calendar) Reopen(id string) (model.TimeSlot, error) {
	return c.CompareAndSwap(id, model.SlotClosed, model.SlotOpen, nil)
}

// ForceClose is the owner override: an OPEN slot is closed, a RESERVED
// slot is released and closed in the same critical section and its
// reservation is returned so the caller can notify the customer.  A
// CLOSED slot fails with ErrConflictingState.
func (c *Calendar) ForceClose(id string) (model.TimeSlot, *model.Reservation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[id]
	if !ok {
		return model.TimeSlot{}, nil, fmt.Errorf("slot %s: %w", id, ErrNotFound)
	}
	var released *model.Reservation
	switch s.State {
	case model.SlotOpen:
	case model.SlotReserved:
		released = s.Reservation
	default:
		return model.TimeSlot{}, nil, fmt.Errorf("slot %s is %s, expected %s or %s: %w",
			id, s.State, model.SlotOpen, model.SlotReserved, ErrConflictingState)
	}
	s.State = model.SlotClosed
	s.Reservation = nil
	return s.Clone(), released, nil
}

// Unavailable returns the ids, in input order, that are unknown or not
// OPEN right now.
func (c *Calendar) Unavailable(ids []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unavailableLocked(ids)
}

func (c *Calendar) unavailableLocked(ids []string) []string {
	var stale []string
	for _, id := range ids {
		if s, ok := c.slots[id]; !ok || s.State != model.SlotOpen {
			stale = append(stale, id)
		}
	}
	return stale
}

// ReserveAll reserves every id under one lock.  If any id is unknown or
// not OPEN nothing is reserved and a *StaleSlotsError listing all such
// ids is returned.  Duplicate ids are reserved once.
func (c *Calendar) ReserveAll(ids []string, res model.Reservation) ([]model.TimeSlot, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			uniq = append(uniq, id)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if stale := c.unavailableLocked(uniq); len(stale) > 0 {
		return nil, &StaleSlotsError{SlotIDs: stale}
	}
	out := make([]model.TimeSlot, 0, len(uniq))
	for _, id := range uniq {
		s := c.slots[id]
		r := res
		s.State = model.SlotReserved
		s.Reservation = &r
		out = append(out, s.Clone())
	}
	return out, nil
}
