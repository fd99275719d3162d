// Package calendar owns the authoritative availability state of the time
// slots of one venue on one date, and the only legal transitions between
// those states.
package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a slot id does not exist in the calendar.
// Handlers should surface it as "slot no longer exists, please refresh".
var ErrNotFound = errors.New("slot not found")

// ErrConflictingState is returned when a transition is attempted from a
// state that does not permit it.  The calendar never retries or coerces
// the transition; callers re-fetch and decide again.
var ErrConflictingState = errors.New("conflicting slot state")

// ErrSlotUnavailable is returned when a customer tries to select or book
// a slot that is not OPEN.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrInvalidSlot is returned by NewCalendar when the input slots break a
// calendar invariant (empty interval, overlap, duplicate id, ...).
var ErrInvalidSlot = errors.New("invalid slot")

// StaleSlotsError lists every slot of a multi-slot operation that was no
// longer OPEN when the operation was validated.  It matches
// ErrSlotUnavailable with errors.Is.
type StaleSlotsError struct {
	SlotIDs []string
}

func (e *StaleSlotsError) Error() string {
	return fmt.Sprintf("slots no longer available: %s", strings.Join(e.SlotIDs, ", "))
}

func (e *StaleSlotsError) Is(target error) bool { return target == ErrSlotUnavailable }

// ErrOutsideWindow is returned by the registry for dates before today or
// beyond the booking window.
var ErrOutsideWindow = errors.New("date outside booking window")

// ErrCalendarExists is returned by Registry.Put when the (venue, date)
// pair already has a live calendar.
var ErrCalendarExists = errors.New("calendar already exists")
