package calendar

import (
	"fmt"
	"time"

	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

// DefaultSlotMinutes is used when a venue does not set SlotMinutes.
const DefaultSlotMinutes = 60

// SlotID builds the id of a generated slot, e.g. "turf-1-2025-03-14-0600".
func SlotID(venueID string, date time.Time, start int) string {
	return fmt.Sprintf("%s-%s-%02d%02d", venueID, date.Format(model.DateLayout), start/60, start%60)
}

// Generate lays out the OPEN slots of a venue for one date: one slot per
// SlotMinutes window inside the operating hours, priced by the venue's
// price bands.  A trailing window shorter than SlotMinutes is dropped.
func Generate(v model.Venue, date time.Time) ([]model.TimeSlot, error) {
	step := v.SlotMinutes
	if step == 0 {
		step = DefaultSlotMinutes
	}
	if step < 0 {
		return nil, fmt.Errorf("venue %s: slot length %d: %w", v.ID, step, ErrInvalidSlot)
	}
	if v.OpensAt < 0 || v.ClosesAt > model.MinutesPerDay || v.ClosesAt <= v.OpensAt {
		return nil, fmt.Errorf("venue %s: operating hours %s: %w", v.ID,
			model.Interval{Start: v.OpensAt, End: v.ClosesAt}, ErrInvalidSlot)
	}
	day := model.DateOnly(date)
	var slots []model.TimeSlot
	for start := v.OpensAt; start+step <= v.ClosesAt; start += step {
		slots = append(slots, model.TimeSlot{
			ID:       SlotID(v.ID, day, start),
			VenueID:  v.ID,
			Date:     day,
			Interval: model.Interval{Start: start, End: start + step},
			Price:    v.PriceAt(start),
			State:    model.SlotOpen,
		})
	}
	return slots, nil
}

// ForVenue generates and validates a calendar in one call.
func ForVenue(v model.Venue, date time.Time) (*Calendar, error) {
	slots, err := Generate(v, date)
	if err != nil {
		return nil, err
	}
	return NewCalendar(v.ID, date, slots)
}
