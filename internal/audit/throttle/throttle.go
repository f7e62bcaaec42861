// Package throttle gates repeated sensitive actions on an artifact using its
// audit history. It layers two checks: a lifecycle-state precondition and a
// rolling-window cap over matching events. The two violations surface as
// distinct outcomes so the caller can answer "try later" vs "not allowed in
// this state", never a plain validation error.
package throttle

import (
	"time"

	"bilan/internal/audit"
	dErrors "bilan/pkg/domain-errors"
)

// Artifact lifecycle states relevant to send actions.
const (
	StatusDraft     = "DRAFT"
	StatusSent      = "SENT"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
)

// Policy caps occurrences of one event type within a rolling window,
// provided the artifact is in an allowed lifecycle state.
type Policy struct {
	EventType audit.Type
	Max       int
	Window    time.Duration
	// AllowedStatuses gates the action on artifact lifecycle state. An
	// empty map allows any state.
	AllowedStatuses map[string]bool
}

// ResendEmailPolicy is the production policy for re-sending a document by
// email: at most 3 sends per rolling 24 hours, only once the document has
// left draft.
func ResendEmailPolicy() Policy {
	return Policy{
		EventType: audit.TypeSentEmail,
		Max:       3,
		Window:    24 * time.Hour,
		AllowedStatuses: map[string]bool{
			StatusSent: true,
			StatusPaid: true,
		},
	}
}

// Check returns nil when the action is allowed. Violations:
//   - CodeConflict when the artifact's state does not permit the action
//   - CodeTooManyRequests when the rolling-window cap is reached
//
// The window boundary is inclusive (see audit.CountRecent): an event exactly
// Window old still counts against the cap.
func (p Policy) Check(status string, events []audit.Event, now time.Time) error {
	if len(p.AllowedStatuses) > 0 && !p.AllowedStatuses[status] {
		return dErrors.Newf(dErrors.CodeConflict, "action not allowed while artifact is %s", status)
	}
	if audit.CountRecent(events, p.EventType, p.Window, now) >= p.Max {
		return dErrors.New(dErrors.CodeTooManyRequests, "too many recent sends, try again later")
	}
	return nil
}
