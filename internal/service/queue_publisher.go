// Package queue_publisher publishes domain events to RabbitMQ. Errors are
// logged and returned so callers can ignore failures without interrupting
// the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/moviehub/movie-catalog/internal/queue"
)

// Publisher implements repository.Notifier against a RabbitMQ broker. A
// fresh connection is dialed per publish; update traffic is low enough that
// robustness beats connection reuse here.
type Publisher struct {
	url string
}

// New returns a Publisher that dials the given AMQP URL.
func New(url string) *Publisher {
	return &Publisher{url: url}
}

// PublishMovieUpdated sends a MovieUpdatedEvent to the movie.updated queue.
// The queue is declared durable and messages are marked persistent, so the
// broker delivers at-least-once across restarts. The function never panics;
// any error is logged and returned for the caller to ignore.
func (p *Publisher) PublishMovieUpdated(ctx context.Context, event q.MovieUpdatedEvent) error {
	conn, err := amqp.Dial(p.url)
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

	// Idempotent declare so publisher and consumer can start in any order.
	if _, err := ch.QueueDeclare(
		q.MovieUpdatedQueue, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                  // default exchange
		q.MovieUpdatedQueue, // routing key = queue name
		false,               // mandatory
		false,               // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
