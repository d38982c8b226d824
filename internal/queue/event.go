// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// MovieUpdatedQueue is the durable queue carrying movie update notifications.
const MovieUpdatedQueue = "movie.updated"

// MovieUpdatedEvent is published after an update to a movie record has
// committed. It carries the full new state of the record so downstream
// consumers can react without querying the primary database. Delivery is
// at-least-once; EventID lets consumers deduplicate.
type MovieUpdatedEvent struct {
	EventID    string `json:"event_id"`
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	DirectorID int64  `json:"directorId"`
	UpdatedAt  string `json:"updated_at"`
}

// NewMovieUpdatedEvent stamps a fresh event for the given movie state.
func NewMovieUpdatedEvent(id int64, name string, directorID int64) MovieUpdatedEvent {
	return MovieUpdatedEvent{
		EventID:    uuid.NewString(),
		ID:         id,
		Name:       name,
		DirectorID: directorID,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}
