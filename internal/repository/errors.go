// Package repository defines error types that are reused across the
// venue catalogues.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import "errors"

// ErrVenueNotFound is returned when a venue id is not in the catalogue.
// Handlers should translate this into an HTTP 404 response.
var ErrVenueNotFound = errors.New("venue not found")

// ErrInvalidVenue is returned when a catalogue row cannot describe a
// bookable venue (e.g. closing time before opening time).
var ErrInvalidVenue = errors.New("invalid venue")
