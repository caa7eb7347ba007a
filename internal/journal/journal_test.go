package journal

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/assetsync/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"event":"device.enrolled","data":{"devices":[]}}`)
	id, err := s.Record(ctx, "evt-001", "device.enrolled", payload, "abc123")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, id, e.ID)
	assert.Equal(t, "evt-001", e.SourceID)
	assert.Equal(t, "device.enrolled", e.EventType)
	assert.Equal(t, "abc123", e.Signature)
	assert.JSONEq(t, string(payload), string(e.Payload))
	assert.False(t, e.ReceivedAt.IsZero())
}

func TestRecordRejectsInvalidPayload(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Record(context.Background(), "evt-002", "device.enrolled", json.RawMessage(`{broken`), "")
	require.Error(t, err)

	_, err = s.Record(context.Background(), "evt-003", "", json.RawMessage(`{}`), "")
	require.Error(t, err)
}

func TestRecentEmpty(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
