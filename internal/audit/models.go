// Package audit keeps the append-only event trail attached to every shared
// artifact (bilan report or invoice document). Events serve two consumers:
// the history panel and the throttle that caps repeated sensitive actions.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates the recorded actions on an artifact.
type Type string

const (
	TypeArtifactCreated Type = "ARTIFACT_CREATED"
	TypeRendered        Type = "PDF_RENDERED"
	TypeStatusChanged   Type = "STATUS_CHANGED"
	TypeTokenCreated    Type = "TOKEN_CREATED"
	TypeTokensRevoked   Type = "TOKENS_REVOKED"
	TypeSentEmail       Type = "DOCUMENT_SENT_EMAIL"
	TypeSharedView      Type = "SHARED_VIEW"
)

// Event is one sanitized, timestamped record of an action taken on an
// artifact. Events are append-only: once written they are never mutated or
// deleted by this core.
type Event struct {
	ID      string    `json:"id"`
	Type    Type      `json:"type"`
	ActorID string    `json:"by"`
	At      time.Time `json:"at"`

	// Details is nil, a string of at most MaxDetailsSize bytes, or a flat
	// map of primitive values whose serialized size respects the same
	// bound. NewEvent enforces this via SanitizeDetails.
	Details any `json:"details,omitempty"`
}

// NewEvent builds an event with a fresh ID and sanitized details. The caller
// supplies the timestamp so batch appends within one request share a clock.
func NewEvent(t Type, actorID string, details any, at time.Time) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    t,
		ActorID: actorID,
		At:      at,
		Details: SanitizeDetails(details),
	}
}

// CountRecent counts events of the given type whose timestamp falls within
// the window ending at now. The window boundary is inclusive: an event aged
// exactly the window still counts as recent. That is a deliberate
// conservative choice favoring under-sending over over-sending.
func CountRecent(events []Event, match Type, window time.Duration, now time.Time) int {
	cutoff := now.Add(-window)
	var n int
	for _, e := range events {
		if e.Type != match {
			continue
		}
		if e.At.Before(cutoff) || e.At.After(now) {
			continue
		}
		n++
	}
	return n
}
