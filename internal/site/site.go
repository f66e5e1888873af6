package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/instawp/twowaysync-sample/internal/content"
	"github.com/instawp/twowaysync-sample/internal/event"
	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
	"github.com/instawp/twowaysync-sample/internal/provider/postmeta"
	"github.com/instawp/twowaysync-sample/internal/provider/termmeta"
	"github.com/instawp/twowaysync-sample/internal/store"
)

// SyncSuccessMessage is the acknowledgement message for handled events.
const SyncSuccessMessage = "Sync successfully."

// ErrUnknownProvider is returned when a settings change names an
// unregistered provider.
var ErrUnknownProvider = errors.New("unknown provider")

// Site is a reference host over a store and a provider registry.
type Site struct {
	store    *store.Store
	registry *provider.Registry
	refs     IDGenerator
	eventIDs IDGenerator
	logger   *slog.Logger
}

var (
	_ provider.Helper   = (*Site)(nil)
	_ provider.Recorder = (*Site)(nil)
	_ provider.Content  = (*Site)(nil)
)

// Option configures a Site.
type Option func(*Site)

// WithReferenceIDs sets the generator for new reference ids.
func WithReferenceIDs(g IDGenerator) Option {
	return func(s *Site) { s.refs = g }
}

// WithEventIDs sets the generator for new event ids.
func WithEventIDs(g IDGenerator) Option {
	return func(s *Site) { s.eventIDs = g }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Site) { s.logger = l }
}

// New creates a Site with an empty registry. Callers register providers
// against Host().
func New(st *store.Store, opts ...Option) *Site {
	s := &Site{
		store:    st,
		registry: provider.NewRegistry(),
		refs:     UUIDv4Generator{},
		eventIDs: UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry.SetLogger(s.logger)
	return s
}

// NewDefault creates a Site with the built-in post meta and term meta
// providers registered, in that order.
func NewDefault(st *store.Store, opts ...Option) (*Site, error) {
	s := New(st, opts...)
	if err := postmeta.Register(s.registry, s.Host()); err != nil {
		return nil, err
	}
	if err := termmeta.Register(s.registry, s.Host()); err != nil {
		return nil, err
	}
	return s, nil
}

// Host returns the contracts providers are bound to.
func (s *Site) Host() provider.Host {
	return provider.Host{Helper: s, Recorder: s, Content: s, Logger: s.logger}
}

// Registry returns the site's provider registry.
func (s *Site) Registry() *provider.Registry {
	return s.registry
}

// Store returns the underlying store.
func (s *Site) Store() *store.Store {
	return s.store
}

// CanSync implements provider.Helper. A toggle that was never saved takes
// the provider's default.
func (s *Site) CanSync(ctx context.Context, providerID string) (bool, error) {
	toggle, _, err := s.toggle(ctx, providerID)
	if err != nil {
		return false, err
	}
	return toggle == provider.On, nil
}

// PostTypeName implements provider.Helper.
func (s *Site) PostTypeName(_ context.Context, postType string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(postType, "_", " "))
}

// SyncResponse implements provider.Helper.
func (s *Site) SyncResponse(ev event.Inbound, extra ...metaval.Pair) *event.Response {
	resp := &event.Response{
		EventID: ev.ID,
		Slug:    ev.EventSlug,
		Status:  event.StatusCompleted,
		Message: SyncSuccessMessage,
	}
	if len(extra) > 0 {
		resp.Data = metaval.NewObject(extra...)
	}
	return resp
}

// Record implements provider.Recorder by appending rec to the event log.
func (s *Site) Record(ctx context.Context, rec event.Record, referenceID, providerID string) error {
	hash, err := event.Hash(rec)
	if err != nil {
		return err
	}
	seq, err := s.store.WriteEvent(ctx, store.StoredEvent{
		ID:          s.eventIDs.Generate(),
		ContentHash: hash,
		ProviderID:  providerID,
		ReferenceID: referenceID,
		Record:      rec,
	})
	if err != nil {
		return fmt.Errorf("record %s: %w", rec.Slug, err)
	}
	s.logger.Info("sync event recorded",
		"seq", seq,
		"slug", rec.Slug,
		"provider", providerID,
		"reference_id", referenceID)
	return nil
}

// CreatePost inserts a post. Creating content is not a metadata write and
// produces no events.
func (s *Site) CreatePost(ctx context.Context, p content.Post) (content.Post, error) {
	id, err := s.store.CreatePost(ctx, p)
	if err != nil {
		return content.Post{}, err
	}
	return s.store.ReadPost(ctx, id)
}

// CreateTerm inserts a term.
func (s *Site) CreateTerm(ctx context.Context, t content.Term) (content.Term, error) {
	id, err := s.store.CreateTerm(ctx, t)
	if err != nil {
		return content.Term{}, err
	}
	return s.store.ReadTerm(ctx, id)
}

// Post implements provider.Content.
func (s *Site) Post(ctx context.Context, id int64) (*content.Post, error) {
	p, err := s.store.ReadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Term implements provider.Content.
func (s *Site) Term(ctx context.Context, id int64) (*content.Term, error) {
	t, err := s.store.ReadTerm(ctx, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
