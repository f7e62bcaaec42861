// Package postgres persists artifact event histories in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE artifact_events (
//	    id          UUID PRIMARY KEY,
//	    artifact_id TEXT NOT NULL,
//	    event_type  TEXT NOT NULL,
//	    actor_id    TEXT NOT NULL,
//	    details     JSONB,
//	    at          TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX artifact_events_artifact_idx ON artifact_events (artifact_id, at);
//
// The table is insert-only; nothing in this package updates or deletes rows.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bilan/internal/audit"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
)

// Store implements audit.Store over a PostgreSQL connection pool.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one event row for the artifact.
func (s *Store) Append(ctx context.Context, artifactID string, event audit.Event) error {
	var details []byte
	if event.Details != nil {
		b, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal event details: %w", err)
		}
		details = b
	}

	query := `
		INSERT INTO artifact_events (id, artifact_id, event_type, actor_id, details, at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		artifactID,
		string(event.Type),
		event.ActorID,
		details,
		event.At,
	)
	if err != nil {
		return fmt.Errorf("insert artifact event: %w", err)
	}
	return nil
}

// ListByArtifact returns the artifact's history oldest first.
func (s *Store) ListByArtifact(ctx context.Context, artifactID string) ([]audit.Event, error) {
	query := `
		SELECT id, event_type, actor_id, details, at
		FROM artifact_events
		WHERE artifact_id = $1
		ORDER BY at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, artifactID)
	if err != nil {
		return nil, fmt.Errorf("query artifact events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e       audit.Event
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.Type, &e.ActorID, &details, &e.At); err != nil {
			return nil, fmt.Errorf("scan artifact event: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("decode event details: %w", err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact events: %w", err)
	}
	return events, nil
}
