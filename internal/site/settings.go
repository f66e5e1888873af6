package site

import (
	"context"
	"fmt"

	"github.com/instawp/twowaysync-sample/internal/provider"
)

// Setting is a provider's effective settings toggle.
type Setting struct {
	provider.Descriptor
	Value provider.Toggle `json:"value"`
	Saved bool            `json:"saved"` // false when Value is the default
}

// Settings returns every registered provider's toggle in registration order.
func (s *Site) Settings(ctx context.Context) ([]Setting, error) {
	descs := s.registry.Descriptors()
	out := make([]Setting, 0, len(descs))
	for _, d := range descs {
		value, saved, err := s.toggle(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Setting{Descriptor: d, Value: value, Saved: saved})
	}
	return out, nil
}

// SetToggle saves a provider's settings toggle.
func (s *Site) SetToggle(ctx context.Context, providerID string, value provider.Toggle) error {
	p, ok := s.registry.Lookup(providerID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}
	if _, ok := provider.ParseToggle(string(value)); !ok {
		return fmt.Errorf("invalid toggle %q for %s", value, providerID)
	}
	return s.store.SetOption(ctx, p.Descriptor().FieldID(), string(value))
}

// toggle returns the saved toggle for providerID, or its default. Saved
// values other than "on" read as off.
func (s *Site) toggle(ctx context.Context, providerID string) (provider.Toggle, bool, error) {
	raw, ok, err := s.store.GetOption(ctx, provider.FieldPrefix+providerID)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return s.registry.DefaultSetting(providerID), false, nil
	}
	if provider.Toggle(raw) == provider.On {
		return provider.On, true, nil
	}
	return provider.Off, true, nil
}
