package testutil

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/instawp/twowaysync-sample/internal/content"
	"github.com/instawp/twowaysync-sample/internal/event"
	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
)

// ErrNotFound is returned by FakeHost for unknown entities.
var ErrNotFound = errors.New("not found")

// RecordedEvent is one call to FakeHost.Record.
type RecordedEvent struct {
	Record      event.Record
	ReferenceID string
	ProviderID  string
}

// MetaWrite is one metadata write applied through FakeHost.
type MetaWrite struct {
	Entity   provider.EntityKind
	Kind     provider.MutationKind
	ObjectID int64
	Key      string
	Value    metaval.Value
}

// FakeHost is an in-memory host implementing provider.Helper,
// provider.Recorder and provider.Content. Meta writes are captured, not
// re-dispatched to providers.
type FakeHost struct {
	mu sync.Mutex

	Enabled  map[string]bool
	Posts    map[int64]content.Post
	Terms    map[int64]content.Term
	PostRefs map[int64]string
	TermRefs map[int64]string

	Recorded []RecordedEvent
	Writes   []MetaWrite

	// RecordErr, when set, is returned by Record.
	RecordErr error

	// Logger is handed to providers through Host.
	Logger *slog.Logger
}

// NewFakeHost returns an empty host with every toggle off.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		Enabled:  make(map[string]bool),
		Posts:    make(map[int64]content.Post),
		Terms:    make(map[int64]content.Term),
		PostRefs: make(map[int64]string),
		TermRefs: make(map[int64]string),
	}
}

// Host returns the fake as a provider.Host.
func (h *FakeHost) Host() provider.Host {
	return provider.Host{Helper: h, Recorder: h, Content: h, Logger: h.Logger}
}

// AddPost stores a post with its reference id.
func (h *FakeHost) AddPost(p content.Post, ref string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Posts[p.ID] = p
	if ref != "" {
		h.PostRefs[p.ID] = ref
	}
}

// AddTerm stores a term with its reference id.
func (h *FakeHost) AddTerm(t content.Term, ref string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Terms[t.ID] = t
	if ref != "" {
		h.TermRefs[t.ID] = ref
	}
}

// CanSync implements provider.Helper.
func (h *FakeHost) CanSync(_ context.Context, providerID string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Enabled[providerID], nil
}

// PostReferenceID implements provider.Helper.
func (h *FakeHost) PostReferenceID(_ context.Context, postID int64) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.PostRefs[postID], nil
}

// TermReferenceID implements provider.Helper.
func (h *FakeHost) TermReferenceID(_ context.Context, termID int64) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.TermRefs[termID], nil
}

// PostTypeName implements provider.Helper.
func (h *FakeHost) PostTypeName(_ context.Context, postType string) string {
	switch postType {
	case "post":
		return "Post"
	case "page":
		return "Page"
	default:
		return postType
	}
}

// PostByReference implements provider.Helper.
func (h *FakeHost) PostByReference(_ context.Context, postType, referenceID, postName string) (*content.Post, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ref := range h.PostRefs {
		if p := h.Posts[id]; ref == referenceID && p.Type == postType {
			return &p, nil
		}
	}
	if postName == "" {
		return nil, nil
	}
	for _, p := range h.Posts {
		if p.Type == postType && p.Name == postName {
			return &p, nil
		}
	}
	return nil, nil
}

// TermByReference implements provider.Helper.
func (h *FakeHost) TermByReference(_ context.Context, taxonomy, referenceID, slug string) (*content.Term, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ref := range h.TermRefs {
		if t := h.Terms[id]; ref == referenceID && t.Taxonomy == taxonomy {
			return &t, nil
		}
	}
	if slug == "" {
		return nil, nil
	}
	for _, t := range h.Terms {
		if t.Taxonomy == taxonomy && t.Slug == slug {
			return &t, nil
		}
	}
	return nil, nil
}

// SyncResponse implements provider.Helper.
func (h *FakeHost) SyncResponse(ev event.Inbound, extra ...metaval.Pair) *event.Response {
	resp := &event.Response{
		EventID: ev.ID,
		Slug:    ev.EventSlug,
		Status:  event.StatusCompleted,
		Message: "Sync successfully.",
	}
	if len(extra) > 0 {
		resp.Data = metaval.NewObject(extra...)
	}
	return resp
}

// Record implements provider.Recorder.
func (h *FakeHost) Record(_ context.Context, rec event.Record, referenceID, providerID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.RecordErr != nil {
		return h.RecordErr
	}
	h.Recorded = append(h.Recorded, RecordedEvent{Record: rec, ReferenceID: referenceID, ProviderID: providerID})
	return nil
}

// Post implements provider.Content.
func (h *FakeHost) Post(_ context.Context, id int64) (*content.Post, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.Posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Term implements provider.Content.
func (h *FakeHost) Term(_ context.Context, id int64) (*content.Term, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.Terms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

// AddPostMeta implements provider.Content.
func (h *FakeHost) AddPostMeta(_ context.Context, postID int64, key string, value metaval.Value) error {
	h.write(provider.EntityPost, provider.MutationAdded, postID, key, value)
	return nil
}

// UpdatePostMeta implements provider.Content.
func (h *FakeHost) UpdatePostMeta(_ context.Context, postID int64, key string, value metaval.Value) error {
	h.write(provider.EntityPost, provider.MutationUpdated, postID, key, value)
	return nil
}

// AddTermMeta implements provider.Content.
func (h *FakeHost) AddTermMeta(_ context.Context, termID int64, key string, value metaval.Value) error {
	h.write(provider.EntityTerm, provider.MutationAdded, termID, key, value)
	return nil
}

// UpdateTermMeta implements provider.Content.
func (h *FakeHost) UpdateTermMeta(_ context.Context, termID int64, key string, value metaval.Value) error {
	h.write(provider.EntityTerm, provider.MutationUpdated, termID, key, value)
	return nil
}

func (h *FakeHost) write(entity provider.EntityKind, kind provider.MutationKind, id int64, key string, value metaval.Value) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Writes = append(h.Writes, MetaWrite{Entity: entity, Kind: kind, ObjectID: id, Key: key, Value: value})
}
