package provider

import (
	"context"
	"log/slog"

	"github.com/instawp/twowaysync-sample/internal/content"
	"github.com/instawp/twowaysync-sample/internal/event"
	"github.com/instawp/twowaysync-sample/internal/metaval"
)

// Helper is the host's sync helper: authorization, reference ids, lookup by
// reference and response formatting.
type Helper interface {
	// CanSync reports whether the provider's toggle is enabled.
	CanSync(ctx context.Context, providerID string) (bool, error)

	// PostReferenceID and TermReferenceID return the cross-site reference id
	// for a local entity, assigning one if needed.
	PostReferenceID(ctx context.Context, postID int64) (string, error)
	TermReferenceID(ctx context.Context, termID int64) (string, error)

	// PostTypeName returns the singular display name of a post type.
	PostTypeName(ctx context.Context, postType string) string

	// PostByReference finds the local post matching a reference id, falling
	// back to the post name. Returns nil, nil when nothing matches.
	PostByReference(ctx context.Context, postType, referenceID, postName string) (*content.Post, error)

	// TermByReference finds the local term matching a reference id, falling
	// back to the term slug. Returns nil, nil when nothing matches.
	TermByReference(ctx context.Context, taxonomy, referenceID, slug string) (*content.Term, error)

	// SyncResponse formats the acknowledgement for a handled inbound event.
	SyncResponse(ev event.Inbound, extra ...metaval.Pair) *event.Response
}

// Recorder hands outbound records to the host for storage and delivery.
type Recorder interface {
	Record(ctx context.Context, rec event.Record, referenceID, providerID string) error
}

// Content reads local entities and writes their metadata.
type Content interface {
	Post(ctx context.Context, id int64) (*content.Post, error)
	Term(ctx context.Context, id int64) (*content.Term, error)

	AddPostMeta(ctx context.Context, postID int64, key string, value metaval.Value) error
	UpdatePostMeta(ctx context.Context, postID int64, key string, value metaval.Value) error
	AddTermMeta(ctx context.Context, termID int64, key string, value metaval.Value) error
	UpdateTermMeta(ctx context.Context, termID int64, key string, value metaval.Value) error
}

// Host bundles the contracts a provider needs.
type Host struct {
	Helper   Helper
	Recorder Recorder
	Content  Content

	// Logger receives provider diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Log returns h.Logger, or slog.Default() when it is unset.
func (h Host) Log() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
