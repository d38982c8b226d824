package queue

// consumer.go contains the background consumer bound to the movie.updated
// queue. The service itself subscribes only as one more external consumer:
// nothing on the request path depends on it, and other systems may bind to
// the same queue. Each message is appended to logs/movie-updates.log.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// logDir is a variable so tests can point the consumer at a temp directory.
var logDir = "logs"

// StartMovieUpdateConsumer connects to RabbitMQ, declares the movie.updated
// queue (durable) and consumes it until the process exits. It runs a
// reconnect loop with capped backoff: broker unavailability never brings the
// server down, messages that cannot be handled are rejected without requeue.
func StartMovieUpdateConsumer(url string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("movie-update-consumer: dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("movie-update-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(MovieUpdatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(MovieUpdatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMovieUpdated(d.Body); err != nil {
			log.Printf("movie-update-consumer: handle message: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// handleMovieUpdated appends one human-readable line per event to the log
// file. The file is the whole effect; the primary database is not touched.
func handleMovieUpdated(body []byte) error {
	var ev MovieUpdatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", logDir, err)
	}
	fpath := filepath.Join(logDir, "movie-updates.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Movie updated | event_id=%s | id=%d | name=%q | director_id=%d\n",
		ev.UpdatedAt, ev.EventID, ev.ID, ev.Name, ev.DirectorID)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
