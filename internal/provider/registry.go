package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/instawp/twowaysync-sample/internal/event"
)

// ErrDuplicateProvider is returned when a provider id is registered twice.
var ErrDuplicateProvider = errors.New("provider already registered")

// Registry is the ordered list of providers the host iterates.
//
// Registration normally happens once at startup; the mutex only guards
// against hosts that register lazily while serving.
type Registry struct {
	mu        sync.RWMutex
	providers []SyncEventProvider
	byID      map[string]SyncEventProvider
	logger    *slog.Logger
}

// NewRegistry creates an empty registry that logs to slog.Default().
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]SyncEventProvider), logger: slog.Default()}
}

// SetLogger replaces the logger dispatch diagnostics go to.
func (r *Registry) SetLogger(l *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
}

// Register appends p. Registration order is dispatch order.
func (r *Registry) Register(p SyncEventProvider) error {
	id := p.Descriptor().ID
	if id == "" {
		return fmt.Errorf("register provider: empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; ok {
		return fmt.Errorf("register provider %q: %w", id, ErrDuplicateProvider)
	}
	r.providers = append(r.providers, p)
	r.byID[id] = p
	return nil
}

// Providers returns the registered providers in order.
func (r *Registry) Providers() []SyncEventProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SyncEventProvider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Lookup returns the provider registered under id.
func (r *Registry) Lookup(id string) (SyncEventProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok
}

// Descriptors returns every provider's settings descriptor in order.
func (r *Registry) Descriptors() []Descriptor {
	providers := r.Providers()
	out := make([]Descriptor, len(providers))
	for i, p := range providers {
		out[i] = p.Descriptor()
	}
	return out
}

// DefaultSetting returns the default toggle for a provider id. Unknown ids
// default to on, matching the host's behaviour for its built-in events.
func (r *Registry) DefaultSetting(id string) Toggle {
	p, ok := r.Lookup(id)
	if !ok {
		return On
	}
	if d := p.Descriptor().Default; d != "" {
		return d
	}
	return On
}

// NotifyMutation reports a local metadata write to every provider, in
// registration order. The first provider error stops the walk.
func (r *Registry) NotifyMutation(ctx context.Context, m Mutation) error {
	for _, p := range r.Providers() {
		if err := p.OnLocalMutation(ctx, m); err != nil {
			return fmt.Errorf("provider %q: %s %s meta %q: %w",
				p.Descriptor().ID, m.Entity, m.Kind, m.Key, err)
		}
	}
	return nil
}

// Dispatch runs an inbound event through the provider chain starting from
// a pending response.
func (r *Registry) Dispatch(ctx context.Context, ev event.Inbound) (*event.Response, error) {
	return r.DispatchWith(ctx, event.PendingResponse(ev), ev)
}

// DispatchWith threads resp through every provider's OnInboundEvent and
// returns the final response. If no provider owns the slug, resp itself is
// returned.
func (r *Registry) DispatchWith(ctx context.Context, resp *event.Response, ev event.Inbound) (*event.Response, error) {
	r.mu.RLock()
	logger := r.logger
	r.mu.RUnlock()
	for _, p := range r.Providers() {
		next, err := p.OnInboundEvent(ctx, resp, ev)
		if err != nil {
			return resp, fmt.Errorf("provider %q: inbound %s: %w", p.Descriptor().ID, ev.EventSlug, err)
		}
		if next != resp {
			logger.Debug("inbound event handled",
				"provider", p.Descriptor().ID,
				"slug", ev.EventSlug,
				"event_id", ev.ID)
		}
		resp = next
	}
	return resp, nil
}
