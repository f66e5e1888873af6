package provider

import (
	"context"

	"github.com/instawp/twowaysync-sample/internal/event"
	"github.com/instawp/twowaysync-sample/internal/metaval"
)

// FieldPrefix is prepended to a provider id to form its settings field id.
const FieldPrefix = "instawp_sync_"

// Toggle is a settings toggle state.
type Toggle string

// Toggle states.
const (
	On  Toggle = "on"
	Off Toggle = "off"
)

// ParseToggle parses "on" or "off".
func ParseToggle(s string) (Toggle, bool) {
	switch Toggle(s) {
	case On, Off:
		return Toggle(s), true
	}
	return "", false
}

// Descriptor describes a provider to the host's settings screen.
type Descriptor struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Tooltip string `json:"tooltip"`
	Default Toggle `json:"default"`
}

// FieldID returns the settings field id for the provider's toggle.
func (d Descriptor) FieldID() string {
	return FieldPrefix + d.ID
}

// MutationKind distinguishes metadata adds from updates.
type MutationKind int

const (
	MutationAdded MutationKind = iota
	MutationUpdated
)

func (k MutationKind) String() string {
	switch k {
	case MutationAdded:
		return "added"
	case MutationUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// EntityKind names the kind of object that owns a piece of metadata.
type EntityKind string

const (
	EntityPost EntityKind = "post"
	EntityTerm EntityKind = "term"
)

// Mutation is a local metadata write, reported before it is applied.
type Mutation struct {
	Kind     MutationKind
	Entity   EntityKind
	MetaID   int64 // set for updates
	ObjectID int64
	Key      string
	Value    metaval.Value
}

// SyncEventProvider maps one entity kind's metadata to sync events and back.
type SyncEventProvider interface {
	// Descriptor returns the provider's static settings descriptor.
	Descriptor() Descriptor

	// OnLocalMutation is called for every local metadata write. At most one
	// record is handed to the host per qualifying mutation.
	OnLocalMutation(ctx context.Context, m Mutation) error

	// OnInboundEvent handles an inbound event. Events with a slug the
	// provider does not own must return resp unchanged.
	OnInboundEvent(ctx context.Context, resp *event.Response, ev event.Inbound) (*event.Response, error)
}
