package site

import (
	"context"
	"fmt"

	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
	"github.com/instawp/twowaysync-sample/internal/store"
)

type replayKey struct{}

// withReplay marks ctx as carrying an inbound replay.
func withReplay(ctx context.Context) context.Context {
	return context.WithValue(ctx, replayKey{}, true)
}

// isReplay reports whether writes under ctx come from an inbound event.
func isReplay(ctx context.Context) bool {
	v, _ := ctx.Value(replayKey{}).(bool)
	return v
}

// AddPostMeta implements provider.Content.
func (s *Site) AddPostMeta(ctx context.Context, postID int64, key string, value metaval.Value) error {
	return s.addMeta(ctx, provider.EntityPost, store.PostMeta, postID, key, value)
}

// UpdatePostMeta implements provider.Content.
func (s *Site) UpdatePostMeta(ctx context.Context, postID int64, key string, value metaval.Value) error {
	return s.updateMeta(ctx, provider.EntityPost, store.PostMeta, postID, key, value)
}

// AddTermMeta implements provider.Content.
func (s *Site) AddTermMeta(ctx context.Context, termID int64, key string, value metaval.Value) error {
	return s.addMeta(ctx, provider.EntityTerm, store.TermMeta, termID, key, value)
}

// UpdateTermMeta implements provider.Content.
func (s *Site) UpdateTermMeta(ctx context.Context, termID int64, key string, value metaval.Value) error {
	return s.updateMeta(ctx, provider.EntityTerm, store.TermMeta, termID, key, value)
}

// addMeta appends a metadata row. The owner must exist.
func (s *Site) addMeta(ctx context.Context, entity provider.EntityKind, t store.MetaTable, objectID int64, key string, value metaval.Value) error {
	raw, err := metaval.Serialize(value)
	if err != nil {
		return fmt.Errorf("add %s meta %q: %w", entity, key, err)
	}
	if err := s.ownerExists(ctx, entity, objectID); err != nil {
		return err
	}

	m := provider.Mutation{
		Kind:     provider.MutationAdded,
		Entity:   entity,
		ObjectID: objectID,
		Key:      key,
		Value:    value,
	}
	if err := s.notify(ctx, m); err != nil {
		return err
	}

	if _, err := s.store.InsertMeta(ctx, t, objectID, key, raw); err != nil {
		return fmt.Errorf("add %s meta %q: %w", entity, key, err)
	}
	return nil
}

// updateMeta sets every row for key to value. A key with no rows is added
// instead; a single row already holding value is left untouched and fires
// no hooks.
func (s *Site) updateMeta(ctx context.Context, entity provider.EntityKind, t store.MetaTable, objectID int64, key string, value metaval.Value) error {
	raw, err := metaval.Serialize(value)
	if err != nil {
		return fmt.Errorf("update %s meta %q: %w", entity, key, err)
	}

	rows, err := s.store.ReadMeta(ctx, t, objectID, key)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return s.addMeta(ctx, entity, t, objectID, key, value)
	}
	if len(rows) == 1 && rows[0].Value == raw {
		return nil
	}

	m := provider.Mutation{
		Kind:     provider.MutationUpdated,
		Entity:   entity,
		MetaID:   rows[0].MetaID,
		ObjectID: objectID,
		Key:      key,
		Value:    value,
	}
	if err := s.notify(ctx, m); err != nil {
		return err
	}

	if _, err := s.store.UpdateMeta(ctx, t, objectID, key, raw); err != nil {
		return fmt.Errorf("update %s meta %q: %w", entity, key, err)
	}
	return nil
}

// notify runs the outbound hooks unless ctx is an inbound replay.
func (s *Site) notify(ctx context.Context, m provider.Mutation) error {
	if isReplay(ctx) {
		s.logger.Debug("replayed meta write not re-synced",
			"entity", m.Entity, "object_id", m.ObjectID, "key", m.Key)
		return nil
	}
	return s.registry.NotifyMutation(ctx, m)
}

func (s *Site) ownerExists(ctx context.Context, entity provider.EntityKind, id int64) error {
	var err error
	switch entity {
	case provider.EntityPost:
		_, err = s.store.ReadPost(ctx, id)
	case provider.EntityTerm:
		_, err = s.store.ReadTerm(ctx, id)
	default:
		err = fmt.Errorf("unknown entity kind %q", entity)
	}
	return err
}

// Meta returns the unserialized values stored for key, oldest first.
func (s *Site) Meta(ctx context.Context, entity provider.EntityKind, objectID int64, key string) ([]metaval.Value, error) {
	t, err := metaTable(entity)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ReadMeta(ctx, t, objectID, key)
	if err != nil {
		return nil, err
	}
	out := make([]metaval.Value, len(rows))
	for i, r := range rows {
		out[i] = metaval.Unserialize(r.Value)
	}
	return out, nil
}

func metaTable(entity provider.EntityKind) (store.MetaTable, error) {
	switch entity {
	case provider.EntityPost:
		return store.PostMeta, nil
	case provider.EntityTerm:
		return store.TermMeta, nil
	}
	return store.MetaTable{}, fmt.Errorf("unknown entity kind %q", entity)
}
