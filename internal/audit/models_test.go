package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

	e := NewEvent(TypeSentEmail, "user-1", map[string]any{"recipient": "parents"}, at)

	require.NotEmpty(t, e.ID)
	assert.Equal(t, TypeSentEmail, e.Type)
	assert.Equal(t, "user-1", e.ActorID)
	assert.Equal(t, at, e.At)
	assert.Equal(t, map[string]any{"recipient": "parents"}, e.Details)

	other := NewEvent(TypeSentEmail, "user-1", nil, at)
	assert.NotEqual(t, e.ID, other.ID)
	assert.Nil(t, other.Details)
}

func TestCountRecent(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	sent := func(age time.Duration) Event {
		return Event{Type: TypeSentEmail, At: now.Add(-age)}
	}

	t.Run("counts only matching events inside the window", func(t *testing.T) {
		events := []Event{
			sent(1 * time.Hour),
			sent(5 * time.Hour),
			sent(23 * time.Hour),
			sent(25 * time.Hour),
			{Type: TypeSharedView, At: now.Add(-2 * time.Hour)},
		}
		assert.Equal(t, 3, CountRecent(events, TypeSentEmail, window, now))
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		events := []Event{sent(24 * time.Hour)}
		assert.Equal(t, 1, CountRecent(events, TypeSentEmail, window, now))

		events = []Event{sent(24*time.Hour + time.Millisecond)}
		assert.Equal(t, 0, CountRecent(events, TypeSentEmail, window, now))
	})

	t.Run("future events are excluded", func(t *testing.T) {
		events := []Event{{Type: TypeSentEmail, At: now.Add(time.Minute)}}
		assert.Equal(t, 0, CountRecent(events, TypeSentEmail, window, now))
	})

	t.Run("empty history counts zero", func(t *testing.T) {
		assert.Equal(t, 0, CountRecent(nil, TypeSentEmail, window, now))
	})
}
