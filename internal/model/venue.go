package model

// PriceBand prices every slot whose start falls in [Start, End).
// Bands let a venue charge more for evening (peak) hours.
type PriceBand struct {
	Start int   `json:"start"` // minutes since midnight, inclusive
	End   int   `json:"end"`   // minutes since midnight, exclusive
	Price int64 `json:"price"` // whole rupees per slot
}

// Venue describes a bookable turf and the inputs needed to generate its
// daily slots.  Only the ID and the price table matter to the slot
// engine; OwnerID gates the owner endpoints and the remaining fields are
// shown in listings.
type Venue struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"-"` // subject of the owner's token; empty means unmanaged
	Name        string      `json:"name"`
	Location    string      `json:"location"`
	Sport       string      `json:"sport"`
	OpensAt     int         `json:"opens_at"`     // minutes since midnight
	ClosesAt    int         `json:"closes_at"`    // minutes since midnight
	SlotMinutes int         `json:"slot_minutes"` // zero means 60
	BasePrice   int64       `json:"base_price"`
	PriceBands  []PriceBand `json:"price_bands,omitempty"`
}

// PriceAt returns the price of a slot starting at minute m.
func (v Venue) PriceAt(m int) int64 {
	for _, b := range v.PriceBands {
		if m >= b.Start && m < b.End {
			return b.Price
		}
	}
	return v.BasePrice
}
