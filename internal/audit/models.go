// Package audit captures a trail of registry mutations. Events are emitted
// from the service boundary, carried over a channel, and fanned out to a
// sink by a background worker.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names a registry mutation.
type Action string

const (
	ActionSubmit       Action = "submission.created"
	ActionAmend        Action = "submission.amended"
	ActionSetFee       Action = "fee.changed"
	ActionSetAuthority Action = "authority.configured"
)

// Event is one audit record. Keep it transport-agnostic so sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Actor     string    `json:"actor"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
}

// NewEvent builds an event with a fresh ID and timestamp.
func NewEvent(action Action, actor, subject, detail string) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Action:    action,
		Actor:     actor,
		Subject:   subject,
		Detail:    detail,
	}
}
