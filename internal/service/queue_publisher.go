// Package service adapts domain events onto RabbitMQ.  Publishing is
// best effort: errors are logged and swallowed so a broker outage
// never fails a booking request.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pwalcz/cinema-ticket-booking/internal/queue"
)

// QueuePublisher publishes booking lifecycle events to durable queues
// on the default exchange.  It dials per publish, which keeps the
// implementation free of connection state at the cost of latency the
// booking flow does not care about (events fire after commit).
type QueuePublisher struct {
	url string
}

// NewQueuePublisher builds a publisher for the given broker URL.
func NewQueuePublisher(url string) *QueuePublisher {
	return &QueuePublisher{url: url}
}

// BookingPaid emits a booking.paid event for a reservation that just
// completed payment.
func (p *QueuePublisher) BookingPaid(ctx context.Context, reservationID, userID uint64, amountCents uint32, region string) {
	ev := queue.BookingPaidEvent{
		ReservationID: reservationID,
		UserID:        userID,
		AmountCents:   amountCents,
		Region:        region,
		PaidAt:        time.Now().UTC().Format(time.RFC3339),
	}
	p.publish(ctx, queue.PaidQueueName, ev)
}

// BookingExpired emits a booking.expired event for a hold the
// reclaimer just removed.
func (p *QueuePublisher) BookingExpired(ctx context.Context, reservationID uint64, seatIDs []uint64, region string) {
	ev := queue.BookingExpiredEvent{
		ReservationID: reservationID,
		SeatIDs:       seatIDs,
		Region:        region,
		ExpiredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	p.publish(ctx, queue.ExpiredQueueName, ev)
}

func (p *QueuePublisher) publish(ctx context.Context, queueName string, event any) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish to %s failed: %v", queueName, err)
	}
}
