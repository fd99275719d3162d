// Package queue defines the messages exchanged over RabbitMQ and the
// background consumer of the booking.confirmed queue.
package queue

// BookingQueue is the durable queue confirmed bookings are published to.
const BookingQueue = "booking.confirmed"

// BookedSlot is one reserved slot inside a BookingConfirmedEvent.
type BookedSlot struct {
	SlotID string `json:"slot_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Price  int64  `json:"price"`
}

// BookingConfirmedEvent is published once per successful checkout.  It
// carries everything a downstream consumer needs without asking the
// server for the calendar.
type BookingConfirmedEvent struct {
	BookingReference string       `json:"booking_reference"`
	PaymentRef       string       `json:"payment_ref"`
	CustomerName     string       `json:"customer_name"`
	VenueID          string       `json:"venue_id"`
	Date             string       `json:"date"`
	Slots            []BookedSlot `json:"slots"`
	Plan             string       `json:"plan"`
	Subtotal         int64        `json:"subtotal"`
	PlatformFee      int64        `json:"platform_fee"`
	PayableNow       int64        `json:"payable_now"`
	RemainingAtVenue int64        `json:"remaining_at_venue"`
	ConfirmedAt      string       `json:"confirmed_at"`
}
