package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

// MemoryVenues is an in-process venue catalogue.  It backs the demo
// server when no database is configured and is used by tests.
type MemoryVenues struct {
	mu     sync.RWMutex
	venues map[string]model.Venue
}

// NewMemoryVenues returns a catalogue holding the given venues.  Invalid
// venues are rejected.
func NewMemoryVenues(venues ...model.Venue) (*MemoryVenues, error) {
	m := &MemoryVenues{venues: make(map[string]model.Venue, len(venues))}
	for _, v := range venues {
		if err := m.Add(v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add inserts or replaces a venue.
func (m *MemoryVenues) Add(v model.Venue) error {
	if err := validateVenue(v); err != nil {
		return err
	}
	m.mu.Lock()
	m.venues[v.ID] = v
	m.mu.Unlock()
	return nil
}

// GetVenue returns the venue with the given id.
func (m *MemoryVenues) GetVenue(_ context.Context, id string) (model.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.venues[id]
	if !ok {
		return model.Venue{}, fmt.Errorf("%s: %w", id, ErrVenueNotFound)
	}
	return v, nil
}

// ListVenues returns all venues ordered by name.
func (m *MemoryVenues) ListVenues(context.Context) ([]model.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Venue, 0, len(m.venues))
	for _, v := range m.venues {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SampleVenues is the turf list the mobile prototype ships with: hourly
// slots, evening peak pricing.
func SampleVenues() []model.Venue {
	return []model.Venue{
		{
			ID: "turf-1", OwnerID: "owner-1", Name: "Green Field Arena", Location: "Koramangala, Bengaluru", Sport: "Football",
			OpensAt: 6 * 60, ClosesAt: 23 * 60, SlotMinutes: 60, BasePrice: 1200,
			PriceBands: []model.PriceBand{{Start: 17 * 60, End: 23 * 60, Price: 1500}},
		},
		{
			ID: "turf-2", OwnerID: "owner-2", Name: "Champions Cricket Ground", Location: "Andheri, Mumbai", Sport: "Cricket",
			OpensAt: 6 * 60, ClosesAt: 22 * 60, SlotMinutes: 60, BasePrice: 1800,
			PriceBands: []model.PriceBand{{Start: 18 * 60, End: 22 * 60, Price: 2200}},
		},
		{
			ID: "turf-3", OwnerID: "owner-2", Name: "Smash Badminton Court", Location: "Hitech City, Hyderabad", Sport: "Badminton",
			OpensAt: 5 * 60, ClosesAt: 23 * 60, SlotMinutes: 60, BasePrice: 400,
			PriceBands: []model.PriceBand{{Start: 5 * 60, End: 8 * 60, Price: 500}, {Start: 18 * 60, End: 23 * 60, Price: 600}},
		},
	}
}
