package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

// DefaultWindowDays is how many days past today can be opened when the
// registry is built without an explicit window.
const DefaultWindowDays = 30

// VenueSource supplies the operating hours and price table of a venue.
type VenueSource interface {
	GetVenue(ctx context.Context, id string) (model.Venue, error)
}

type key struct {
	venueID string
	date    string
}

// Registry keeps exactly one Calendar per (venue, date) in the process.
// Calendars are generated from the VenueSource on first use and only for
// dates from today through today plus the booking window.
type Registry struct {
	src    VenueSource
	window int

	// Now is the clock the booking window is measured against.  It
	// defaults to time.Now and must not be changed once the registry is
	// shared.
	Now func() time.Time

	mu   sync.Mutex
	cals map[key]*Calendar
}

// NewRegistry returns an empty registry backed by src.  windowDays <= 0
// means DefaultWindowDays.
func NewRegistry(src VenueSource, windowDays int) *Registry {
	if src == nil {
		panic("nil venue source passed to NewRegistry")
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Registry{src: src, window: windowDays, Now: time.Now, cals: make(map[key]*Calendar)}
}

// Today is the first bookable date.
func (r *Registry) Today() time.Time {
	return model.DateOnly(r.Now().UTC())
}

// CheckDate reports ErrOutsideWindow for dates that cannot be opened.
func (r *Registry) CheckDate(date time.Time) error {
	day := model.DateOnly(date)
	today := r.Today()
	if day.Before(today) || day.After(today.AddDate(0, 0, r.window)) {
		return fmt.Errorf("%s (bookable %s to %s): %w", day.Format(model.DateLayout),
			today.Format(model.DateLayout), today.AddDate(0, 0, r.window).Format(model.DateLayout), ErrOutsideWindow)
	}
	return nil
}

// Get returns the calendar for venueID on date, generating it if this is
// the first request for the pair.  Errors from the venue source are
// returned unchanged.  The venue is fetched without holding the registry
// lock; if two requests race, the first calendar stored wins.
func (r *Registry) Get(ctx context.Context, venueID string, date time.Time) (*Calendar, error) {
	if err := r.CheckDate(date); err != nil {
		return nil, err
	}
	k := key{venueID: venueID, date: model.DateOnly(date).Format(model.DateLayout)}
	r.mu.Lock()
	c, ok := r.cals[k]
	r.mu.Unlock()
	if ok {
		return c, nil
	}

	v, err := r.src.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	c, err = ForVenue(v, date)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.cals[k]; ok {
		return existing, nil
	}
	r.cals[k] = c
	return c, nil
}

// Put installs a prepared calendar.  It refuses to replace a live one,
// since open selections may still point at it.  It is used to seed demo
// data and in tests.
func (r *Registry) Put(c *Calendar) error {
	k := key{venueID: c.VenueID(), date: c.Date().Format(model.DateLayout)}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cals[k]; ok {
		return fmt.Errorf("%s on %s: %w", k.venueID, k.date, ErrCalendarExists)
	}
	r.cals[k] = c
	return nil
}

// EvictPast drops the calendars of dates before today and returns how
// many were dropped.
func (r *Registry) EvictPast() int {
	today := r.Today().Format(model.DateLayout)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.cals {
		if k.date < today {
			delete(r.cals, k)
			n++
		}
	}
	return n
}

// Len returns the number of live calendars.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cals)
}
