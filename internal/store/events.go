package store

import (
	"context"
	"fmt"

	"github.com/instawp/twowaysync-sample/internal/event"
)

// StoredEvent is an outbound record as persisted in the event log.
type StoredEvent struct {
	Seq         int64 // assigned on insert
	ID          string
	ContentHash string
	ProviderID  string
	ReferenceID string
	Record      event.Record
}

// WriteEvent appends an event to the log and returns its seq.
//
// Writing an event whose ID already exists is a no-op that returns the
// existing seq, so retried deliveries do not duplicate records.
func (s *Store) WriteEvent(ctx context.Context, ev StoredEvent) (int64, error) {
	data, err := marshalData(ev.Record.Data)
	if err != nil {
		return 0, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sync_events (id, content_hash, provider_id, reference_id, slug, name, type, title, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, ev.ID, ev.ContentHash, ev.ProviderID, ev.ReferenceID,
		string(ev.Record.Slug), ev.Record.Name, ev.Record.Type, ev.Record.Title, data)
	if err != nil {
		return 0, fmt.Errorf("insert sync event: %w", err)
	}

	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT seq FROM sync_events WHERE id = ?`, ev.ID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("read sync event seq: %w", err)
	}
	return seq, nil
}

// ReadEvents returns events with seq > after in seq order. A limit of zero
// or less returns all of them.
func (s *Store) ReadEvents(ctx context.Context, after int64, limit int) ([]StoredEvent, error) {
	return s.queryEvents(ctx, `
		SELECT seq, id, content_hash, provider_id, reference_id, slug, name, type, title, data
		FROM sync_events
		WHERE seq > ?
		ORDER BY seq ASC
		LIMIT ?
	`, after, sqlLimit(limit))
}

// ReadProviderEvents is ReadEvents restricted to events recorded by one
// provider. It reads through idx_sync_events_provider.
func (s *Store) ReadProviderEvents(ctx context.Context, providerID string, after int64, limit int) ([]StoredEvent, error) {
	return s.queryEvents(ctx, `
		SELECT seq, id, content_hash, provider_id, reference_id, slug, name, type, title, data
		FROM sync_events INDEXED BY idx_sync_events_provider
		WHERE provider_id = ? AND seq > ?
		ORDER BY seq ASC
		LIMIT ?
	`, providerID, after, sqlLimit(limit))
}

// sqlLimit maps "no limit" to SQLite's LIMIT -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync events: %w", err)
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var ev StoredEvent
		var slug, data string
		if err := rows.Scan(&ev.Seq, &ev.ID, &ev.ContentHash, &ev.ProviderID, &ev.ReferenceID,
			&slug, &ev.Record.Name, &ev.Record.Type, &ev.Record.Title, &data); err != nil {
			return nil, fmt.Errorf("scan sync event: %w", err)
		}
		ev.Record.Slug = event.Slug(slug)
		ev.Record.Data, err = unmarshalData(data)
		if err != nil {
			return nil, fmt.Errorf("sync event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
