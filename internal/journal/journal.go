// Package journal persists verified raw webhook events to SQLite for
// operator inspection. Writes are best-effort: a journal failure must never
// change the HTTP response given to the webhook source.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one journaled webhook event.
type Entry struct {
	ID         string
	SourceID   string
	EventType  string
	Payload    json.RawMessage
	Signature  string
	ReceivedAt time.Time
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts a verified event and returns the journal row id.
func (s *Store) Record(ctx context.Context, sourceID, eventType string, payload json.RawMessage, signature string) (string, error) {
	if eventType == "" {
		return "", fmt.Errorf("event type is empty")
	}
	if !json.Valid(payload) {
		return "", fmt.Errorf("payload is not valid JSON")
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO webhook_events(id, source_id, event_type, payload, signature, received_at)
VALUES(?, ?, ?, ?, ?, ?);
`, id, sourceID, eventType, string(payload), signature, now)
	if err != nil {
		return "", fmt.Errorf("insert webhook event: %w", err)
	}
	return id, nil
}

// Recent returns up to limit journaled events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, source_id, event_type, payload, signature, received_at
FROM webhook_events
ORDER BY received_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query webhook events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var payload, receivedAt string
		if err := rows.Scan(&e.ID, &e.SourceID, &e.EventType, &payload, &e.Signature, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan webhook event: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		if t, err := time.Parse(time.RFC3339Nano, receivedAt); err == nil {
			e.ReceivedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook events: %w", err)
	}
	return entries, nil
}
