// Package termmeta syncs taxonomy term metadata between linked sites.
//
// Inbound events are replayed like post meta, resolving the term by
// reference id and falling back to its slug within the taxonomy. The
// stock host plugin only acknowledges term meta events; replaying them
// here is an extension, so a site pairing with that plugin sees term meta
// flow one way.
package termmeta

import (
	"context"
	"fmt"

	"github.com/instawp/twowaysync-sample/internal/content"
	"github.com/instawp/twowaysync-sample/internal/event"
	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
)

// ID is the provider id.
const ID = "term_meta"

// Provider maps term metadata writes to sync events and back.
type Provider struct {
	host provider.Host
}

var _ provider.SyncEventProvider = (*Provider)(nil)

// New creates a term meta provider bound to host.
func New(host provider.Host) *Provider {
	return &Provider{host: host}
}

// Register adds a term meta provider to reg.
func Register(reg *provider.Registry, host provider.Host) error {
	return reg.Register(New(host))
}

// Descriptor implements provider.SyncEventProvider.
func (p *Provider) Descriptor() provider.Descriptor {
	return provider.Descriptor{
		ID:      ID,
		Title:   "Term Meta",
		Tooltip: "Enabling this option will allow plugin to log events related to all taxonomy terms meta.",
		Default: provider.Off,
	}
}

// OnLocalMutation records an event for a term meta add or update.
func (p *Provider) OnLocalMutation(ctx context.Context, m provider.Mutation) error {
	if m.Entity != provider.EntityTerm {
		return nil
	}

	enabled, err := p.host.Helper.CanSync(ctx, ID)
	if err != nil {
		return fmt.Errorf("check sync toggle: %w", err)
	}
	if !enabled || provider.IsExcludedKey(m.Key) {
		p.host.Log().Debug("term meta write not synced", "term_id", m.ObjectID, "key", m.Key, "enabled", enabled)
		return nil
	}

	term, err := p.host.Content.Term(ctx, m.ObjectID)
	if err != nil {
		return fmt.Errorf("load term %d: %w", m.ObjectID, err)
	}
	ref, err := p.host.Helper.TermReferenceID(ctx, m.ObjectID)
	if err != nil {
		return fmt.Errorf("reference id for term %d: %w", m.ObjectID, err)
	}

	serialized, err := metaval.Serialize(m.Value)
	if err != nil {
		return fmt.Errorf("serialize %q: %w", m.Key, err)
	}

	slug := event.TermMetaAdded
	data := metaval.Object{
		event.DataObjectID:  metaval.Int(m.ObjectID),
		event.DataMetaKey:   metaval.String(m.Key),
		event.DataMetaValue: metaval.String(serialized),
		event.DataTerm:      term.Snapshot(),
	}
	if m.Kind == provider.MutationUpdated {
		slug = event.TermMetaUpdated
		data[event.DataMetaID] = metaval.Int(m.MetaID)
	}

	rec := event.Record{
		Name:  "Term meta updated", // same display name for adds
		Slug:  slug,
		Type:  term.Taxonomy,
		Title: m.Key,
		Data:  data,
	}
	return p.host.Recorder.Record(ctx, rec, ref, ID)
}

// OnInboundEvent replays term meta events onto the matching local term,
// found by reference id with the term slug as fallback.
func (p *Provider) OnInboundEvent(ctx context.Context, resp *event.Response, ev event.Inbound) (*event.Response, error) {
	switch ev.EventSlug {
	case event.TermMetaAdded, event.TermMetaUpdated:
	default:
		return resp, nil
	}

	snapshot, _ := ev.Details.Object(event.DataTerm)
	remote := content.TermFromSnapshot(snapshot)
	key, _ := ev.Details.String(event.DataMetaKey)
	raw, _ := ev.Details.String(event.DataMetaValue)

	local, err := p.host.Helper.TermByReference(ctx, remote.Taxonomy, ev.Reference(), remote.Slug)
	if err != nil {
		return resp, fmt.Errorf("find term by reference %q: %w", ev.Reference(), err)
	}
	if local == nil || key == "" {
		p.host.Log().Debug("no local term for inbound meta event",
			"reference_id", ev.Reference(), "taxonomy", remote.Taxonomy, "slug", remote.Slug)
		return resp, nil
	}

	value := metaval.Unserialize(raw)
	if ev.EventSlug == event.TermMetaAdded {
		err = p.host.Content.AddTermMeta(ctx, local.ID, key, value)
	} else {
		err = p.host.Content.UpdateTermMeta(ctx, local.ID, key, value)
	}
	if err != nil {
		return resp, fmt.Errorf("apply %s to term %d: %w", ev.EventSlug, local.ID, err)
	}

	return p.host.Helper.SyncResponse(ev), nil
}
