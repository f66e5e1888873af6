// Package postmeta syncs post metadata between linked sites.
package postmeta

import (
	"context"
	"fmt"

	"github.com/instawp/twowaysync-sample/internal/content"
	"github.com/instawp/twowaysync-sample/internal/event"
	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
)

// ID is the provider id. The settings toggle is provider.FieldPrefix + ID.
const ID = "post_meta"

// Provider maps post metadata writes to sync events and back.
type Provider struct {
	host provider.Host
}

var _ provider.SyncEventProvider = (*Provider)(nil)

// New creates a post meta provider bound to host.
func New(host provider.Host) *Provider {
	return &Provider{host: host}
}

// Register adds a post meta provider to reg.
func Register(reg *provider.Registry, host provider.Host) error {
	return reg.Register(New(host))
}

// Descriptor implements provider.SyncEventProvider.
func (p *Provider) Descriptor() provider.Descriptor {
	return provider.Descriptor{
		ID:      ID,
		Title:   "Posts Meta",
		Tooltip: "Enabling this option will allow plugin to log events related to all posts, pages and custom post types meta.",
		Default: provider.Off,
	}
}

// OnLocalMutation records an event for a post meta add or update.
func (p *Provider) OnLocalMutation(ctx context.Context, m provider.Mutation) error {
	if m.Entity != provider.EntityPost {
		return nil
	}

	enabled, err := p.host.Helper.CanSync(ctx, ID)
	if err != nil {
		return fmt.Errorf("check sync toggle: %w", err)
	}
	if !enabled {
		p.host.Log().Debug("post meta sync disabled", "post_id", m.ObjectID, "key", m.Key)
		return nil
	}
	if provider.IsExcludedKey(m.Key) {
		p.host.Log().Debug("post meta key excluded from sync", "post_id", m.ObjectID, "key", m.Key)
		return nil
	}

	post, err := p.host.Content.Post(ctx, m.ObjectID)
	if err != nil {
		return fmt.Errorf("load post %d: %w", m.ObjectID, err)
	}
	ref, err := p.host.Helper.PostReferenceID(ctx, m.ObjectID)
	if err != nil {
		return fmt.Errorf("reference id for post %d: %w", m.ObjectID, err)
	}

	rec, err := p.buildRecord(ctx, m, *post)
	if err != nil {
		return err
	}
	return p.host.Recorder.Record(ctx, rec, ref, ID)
}

func (p *Provider) buildRecord(ctx context.Context, m provider.Mutation, post content.Post) (event.Record, error) {
	serialized, err := metaval.Serialize(m.Value)
	if err != nil {
		return event.Record{}, fmt.Errorf("serialize %q: %w", m.Key, err)
	}

	slug := event.PostMetaAdded
	if m.Kind == provider.MutationUpdated {
		slug = event.PostMetaUpdated
	}

	data := metaval.Object{
		event.DataObjectID:  metaval.Int(m.ObjectID),
		event.DataMetaKey:   metaval.String(m.Key),
		event.DataMetaValue: metaval.String(serialized),
		event.DataPost:      post.Snapshot(),
	}
	if m.Kind == provider.MutationUpdated {
		data[event.DataMetaID] = metaval.Int(m.MetaID)
	}

	return event.Record{
		Name:  p.host.Helper.PostTypeName(ctx, post.Type) + " meta updated", // same display name for adds
		Slug:  slug,
		Type:  post.Type,
		Title: m.Key,
		Data:  data,
	}, nil
}

// OnInboundEvent replays post meta events onto the matching local post.
// When no local post matches, nothing is written and resp is returned
// unmodified so the host can tell the event went unapplied.
func (p *Provider) OnInboundEvent(ctx context.Context, resp *event.Response, ev event.Inbound) (*event.Response, error) {
	if ev.EventSlug != event.PostMetaAdded && ev.EventSlug != event.PostMetaUpdated {
		return resp, nil
	}

	snapshot, _ := ev.Details.Object(event.DataPost)
	remote := content.PostFromSnapshot(snapshot)
	key, _ := ev.Details.String(event.DataMetaKey)
	raw, _ := ev.Details.String(event.DataMetaValue)

	local, err := p.host.Helper.PostByReference(ctx, remote.Type, ev.Reference(), remote.Name)
	if err != nil {
		return resp, fmt.Errorf("find post by reference %q: %w", ev.Reference(), err)
	}
	if local == nil || key == "" {
		p.host.Log().Debug("no local post for inbound meta event",
			"reference_id", ev.Reference(), "post_type", remote.Type, "post_name", remote.Name)
		return resp, nil
	}

	value := metaval.Unserialize(raw)
	if ev.EventSlug == event.PostMetaAdded {
		err = p.host.Content.AddPostMeta(ctx, local.ID, key, value)
	} else {
		err = p.host.Content.UpdatePostMeta(ctx, local.ID, key, value)
	}
	if err != nil {
		return resp, fmt.Errorf("apply %s to post %d: %w", ev.EventSlug, local.ID, err)
	}

	return p.host.Helper.SyncResponse(ev), nil
}
