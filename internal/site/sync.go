package site

import (
	"context"
	"fmt"

	"github.com/instawp/twowaysync-sample/internal/event"
	"github.com/instawp/twowaysync-sample/internal/store"
)

// LoggedEvent is an outbound event as read back from the log.
type LoggedEvent = store.StoredEvent

// Events returns logged outbound events with seq > after, in log order.
func (s *Site) Events(ctx context.Context, after int64) ([]LoggedEvent, error) {
	return s.store.ReadEvents(ctx, after, 0)
}

// ProviderEvents is Events restricted to one registered provider.
func (s *Site) ProviderEvents(ctx context.Context, providerID string, after int64) ([]LoggedEvent, error) {
	if _, ok := s.registry.Lookup(providerID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}
	return s.store.ReadProviderEvents(ctx, providerID, after, 0)
}

// Export converts logged events with seq > after into inbound events for
// the linked site. The reference id travels as the source id and the
// record data as details.
func (s *Site) Export(ctx context.Context, after int64) ([]event.Inbound, error) {
	logged, err := s.Events(ctx, after)
	if err != nil {
		return nil, err
	}
	return toInbound(logged), nil
}

// ExportProvider is Export restricted to one registered provider.
func (s *Site) ExportProvider(ctx context.Context, providerID string, after int64) ([]event.Inbound, error) {
	logged, err := s.ProviderEvents(ctx, providerID, after)
	if err != nil {
		return nil, err
	}
	return toInbound(logged), nil
}

func toInbound(logged []LoggedEvent) []event.Inbound {
	out := make([]event.Inbound, len(logged))
	for i, ev := range logged {
		out[i] = event.Inbound{
			ID:        ev.ID,
			EventSlug: ev.Record.Slug,
			EventName: ev.Record.Name,
			EventType: ev.Record.Type,
			SourceID:  ev.ReferenceID,
			Details:   ev.Record.Data.Clone(),
		}
	}
	return out
}

// Apply dispatches inbound events through the provider chain, in order.
// Metadata written while handling them does not produce outbound events.
// Apply stops at the first provider error and returns the responses
// collected so far.
func (s *Site) Apply(ctx context.Context, events []event.Inbound) ([]*event.Response, error) {
	ctx = withReplay(ctx)

	responses := make([]*event.Response, 0, len(events))
	for _, ev := range events {
		resp, err := s.registry.Dispatch(ctx, ev)
		if err != nil {
			return responses, fmt.Errorf("apply event %s: %w", ev.ID, err)
		}
		s.logger.Info("inbound event applied",
			"event_id", ev.ID,
			"slug", ev.EventSlug,
			"status", resp.Status)
		responses = append(responses, resp)
	}
	return responses, nil
}
