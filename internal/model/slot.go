package model

import (
	"fmt"
	"time"
)

// SlotState is the availability state of a single time slot.  Every
// generated slot starts OPEN; the only legal transitions are
// OPEN<->RESERVED and OPEN<->CLOSED.
type SlotState string

const (
	SlotOpen     SlotState = "OPEN"     // bookable by customers
	SlotReserved SlotState = "RESERVED" // booked by a customer, carries a Reservation
	SlotClosed   SlotState = "CLOSED"   // withheld by the venue owner (maintenance, blackout)
)

// Valid reports whether s is one of the three known states.
func (s SlotState) Valid() bool {
	switch s {
	case SlotOpen, SlotReserved, SlotClosed:
		return true
	}
	return false
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MinutesPerDay bounds Interval values.
const MinutesPerDay = 24 * 60

// Interval is a half-open time range [Start, End) expressed in minutes
// since midnight.
type Interval struct {
	Start int `json:"start"` // inclusive
	End   int `json:"end"`   // exclusive
}

// Empty reports whether the interval covers no time at all.
func (i Interval) Empty() bool { return i.End <= i.Start }

// Overlaps reports whether i and o share at least one minute.  Adjacent
// intervals such as [60,120) and [120,180) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Minutes returns the length of the interval.
func (i Interval) Minutes() int { return i.End - i.Start }

// String renders the interval as "HH:MM-HH:MM".
func (i Interval) String() string {
	return ClockString(i.Start) + "-" + ClockString(i.End)
}

// ClockString formats minutes since midnight as HH:MM.
func ClockString(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseClock parses "HH:MM" into minutes since midnight.  "24:00" is
// accepted so that a venue may close at midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || h*60+m > MinutesPerDay {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return h*60 + m, nil
}

// Reservation binds a slot to a customer once payment succeeds.
type Reservation struct {
	CustomerName     string `json:"customer_name"`
	BookingReference string `json:"booking_reference"`
}

// TimeSlot is one bookable interval for a venue on a single date.
//
// Fields:
//
//	ID         : stable identifier, unique within (VenueID, Date).
//	VenueID    : owning venue.
//	Date       : calendar date, always midnight UTC.
//	Interval   : [start, end) in minutes since midnight.
//	Price      : whole rupees, fixed at creation.
//	State      : OPEN, RESERVED or CLOSED.
//	Reservation: non-nil exactly when State is RESERVED.
type TimeSlot struct {
	ID          string       `json:"id"`
	VenueID     string       `json:"venue_id"`
	Date        time.Time    `json:"-"`
	Interval    Interval     `json:"interval"`
	Price       int64        `json:"price"`
	State       SlotState    `json:"state"`
	Reservation *Reservation `json:"reservation,omitempty"`
}

// Clone returns a deep copy of the slot so callers never share the
// reservation pointer with the owning calendar.
func (s TimeSlot) Clone() TimeSlot {
	out := s
	if s.Reservation != nil {
		r := *s.Reservation
		out.Reservation = &r
	}
	return out
}

// DateOnly truncates t to midnight UTC of its own calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
