// Package repository contains data access logic separated from HTTP handlers.
// This file reads the venue catalogue from MySQL: each venue row carries its
// operating hours and slot length, and venue_price_bands holds the
// peak/off-peak price table used to generate daily slots.  Slot state itself
// is never written to the database.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used for errors.Is comparisons
	"fmt"          // fmt wraps validation errors

	"github.com/Hustlehub34/Sporto-sub000/internal/model"
)

// VenueRepo encapsulates all database queries related to venues.  It
// depends on a sql.DB connection which should be configured elsewhere.
type VenueRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, owner_id, name, location, sport, opens_at_min, closes_at_min, slot_minutes, base_price`

func scanVenue(sc interface{ Scan(...any) error }) (model.Venue, error) {
	var v model.Venue
	err := sc.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Location, &v.Sport, &v.OpensAt, &v.ClosesAt, &v.SlotMinutes, &v.BasePrice)
	return v, err
}

// GetVenue fetches a venue and its price bands.  It returns
// ErrVenueNotFound if no row is found.
func (r *VenueRepo) GetVenue(ctx context.Context, id string) (model.Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues WHERE id = ? AND is_active = 1`
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Venue{}, fmt.Errorf("%s: %w", id, ErrVenueNotFound)
		}
		return model.Venue{}, err
	}
	bands, err := r.priceBands(ctx, id)
	if err != nil {
		return model.Venue{}, err
	}
	v.PriceBands = bands
	if err := validateVenue(v); err != nil {
		return model.Venue{}, err
	}
	return v, nil
}

// ListVenues returns every active venue ordered by name.  Price bands are
// not loaded; listings only show the base price.
func (r *VenueRepo) ListVenues(ctx context.Context) ([]model.Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues WHERE is_active = 1 ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// priceBands loads the price table of one venue ordered by start minute.
func (r *VenueRepo) priceBands(ctx context.Context, venueID string) ([]model.PriceBand, error) {
	const q = `SELECT start_min, end_min, price FROM venue_price_bands
	           WHERE venue_id = ? ORDER BY start_min`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bands []model.PriceBand
	for rows.Next() {
		var b model.PriceBand
		if err := rows.Scan(&b.Start, &b.End, &b.Price); err != nil {
			return nil, err
		}
		bands = append(bands, b)
	}
	return bands, rows.Err()
}

// validateVenue rejects rows that cannot produce a valid slot calendar.
func validateVenue(v model.Venue) error {
	if v.ID == "" {
		return fmt.Errorf("missing id: %w", ErrInvalidVenue)
	}
	if v.OpensAt < 0 || v.ClosesAt > model.MinutesPerDay || v.ClosesAt <= v.OpensAt {
		return fmt.Errorf("venue %s: opens %d closes %d: %w", v.ID, v.OpensAt, v.ClosesAt, ErrInvalidVenue)
	}
	if v.SlotMinutes < 0 || v.BasePrice < 0 {
		return fmt.Errorf("venue %s: negative slot length or price: %w", v.ID, ErrInvalidVenue)
	}
	for _, b := range v.PriceBands {
		if b.End <= b.Start || b.Price < 0 {
			return fmt.Errorf("venue %s: price band %d-%d: %w", v.ID, b.Start, b.End, ErrInvalidVenue)
		}
	}
	return nil
}
