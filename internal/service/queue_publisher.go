// Package service holds adapters between the booking core and outside
// systems.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Hustlehub34/Sporto-sub000/internal/booking"
	"github.com/Hustlehub34/Sporto-sub000/internal/model"
	"github.com/Hustlehub34/Sporto-sub000/internal/queue"
)

// BookingPublisher sends a BookingConfirmedEvent for every confirmed
// checkout.  It dials per message; bookings are rare next to reads.
type BookingPublisher struct {
	URL string
}

var _ booking.Notifier = (*BookingPublisher)(nil)

// BookingConfirmed implements booking.Notifier.
func (p *BookingPublisher) BookingConfirmed(ctx context.Context, r booking.Receipt) error {
	body, err := json.Marshal(EventFromReceipt(r))
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.BookingQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    r.BookingReference,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BookingQueue, false, false, msg); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// EventFromReceipt flattens a receipt into the wire event.
func EventFromReceipt(r booking.Receipt) queue.BookingConfirmedEvent {
	slots := make([]queue.BookedSlot, 0, len(r.Slots))
	for _, s := range r.Slots {
		slots = append(slots, queue.BookedSlot{
			SlotID: s.ID,
			Start:  model.ClockString(s.Interval.Start),
			End:    model.ClockString(s.Interval.End),
			Price:  s.Price,
		})
	}
	return queue.BookingConfirmedEvent{
		BookingReference: r.BookingReference,
		PaymentRef:       r.PaymentRef,
		CustomerName:     r.CustomerName,
		VenueID:          r.VenueID,
		Date:             r.Date,
		Slots:            slots,
		Plan:             string(r.Plan),
		Subtotal:         r.Totals.Subtotal,
		PlatformFee:      r.Totals.PlatformFee,
		PayableNow:       r.Totals.PayableNow,
		RemainingAtVenue: r.Totals.RemainingAtVenue,
		ConfirmedAt:      r.ConfirmedAt.Format(time.RFC3339),
	}
}

// LogNotifier only logs confirmed bookings.  It is used when publishing
// is switched off.
type LogNotifier struct{}

// BookingConfirmed implements booking.Notifier.
func (LogNotifier) BookingConfirmed(_ context.Context, r booking.Receipt) error {
	log.Printf("booking: confirmed ref=%s venue=%s date=%s slots=%d paid=%d",
		r.BookingReference, r.VenueID, r.Date, len(r.Slots), r.Totals.PayableNow)
	return nil
}
