package store

import (
	"context"
	"errors"
	"fmt"
)

// GetOption returns a site option. ok is false when it was never set.
func (s *Store) GetOption(ctx context.Context, name string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM options WHERE name = ?`, name).Scan(&value)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get option %q: %w", name, err)
	}
	return value, true, nil
}

// SetOption creates or replaces a site option.
func (s *Store) SetOption(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO options (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, name, value)
	if err != nil {
		return fmt.Errorf("set option %q: %w", name, err)
	}
	return nil
}
