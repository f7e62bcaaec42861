package audit

import (
	"context"
	"log/slog"
	"time"

	dErrors "bilan/pkg/domain-errors"
)

// Store persists artifact events. Implementations must keep appends
// append-only and return histories in chronological order.
//
// Append is logically read-modify-write from the throttle's point of view:
// two concurrent appends for the same artifact can both pass a throttle
// check against a stale history. Callers that gate actions on CountRecent
// must serialize per-artifact writes (e.g. a per-row transaction); this core
// documents the guarantee but does not implement it.
type Store interface {
	Append(ctx context.Context, artifactID string, event Event) error
	ListByArtifact(ctx context.Context, artifactID string) ([]Event, error)
}

// Log records structured audit events for artifacts. It sanitizes details
// and stamps timestamps; persistence is delegated to the store so tests can
// swap sinks.
type Log struct {
	store  Store
	logger *slog.Logger
	clock  func() time.Time
}

// LogOption configures a Log.
type LogOption func(*Log)

// WithLogger attaches a logger for append diagnostics.
func WithLogger(logger *slog.Logger) LogOption {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock injects the time source for tests.
func WithClock(clock func() time.Time) LogOption {
	return func(l *Log) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// NewLog creates an audit log over the given store.
func NewLog(store Store, opts ...LogOption) *Log {
	l := &Log{
		store:  store,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record sanitizes, stamps and appends one event to an artifact's history,
// returning the event as written.
func (l *Log) Record(ctx context.Context, artifactID string, t Type, actorID string, details any) (Event, error) {
	if artifactID == "" {
		return Event{}, dErrors.New(dErrors.CodeBadRequest, "audit: artifact id is required")
	}
	event := NewEvent(t, actorID, details, l.clock())
	if err := l.store.Append(ctx, artifactID, event); err != nil {
		l.logger.ErrorContext(ctx, "audit append failed",
			"artifact_id", artifactID,
			"event_type", string(t),
			"error", err.Error(),
		)
		return Event{}, dErrors.Wrap(err, dErrors.CodeInternal, "audit: append failed")
	}
	return event, nil
}

// History returns an artifact's full event list, oldest first.
func (l *Log) History(ctx context.Context, artifactID string) ([]Event, error) {
	events, err := l.store.ListByArtifact(ctx, artifactID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "audit: history read failed")
	}
	return events, nil
}
