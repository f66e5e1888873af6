package site

import "github.com/google/uuid"

// IDGenerator produces unique ids for references and events.
type IDGenerator interface {
	Generate() string
}

// UUIDv4Generator generates random UUIDv4 reference ids.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv4Generator struct{}

// Generate returns a hyphenated UUIDv4.
func (UUIDv4Generator) Generate() string {
	return uuid.NewString()
}

// UUIDv7Generator generates time-sortable UUIDv7 event ids, so event ids
// sort in creation order.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a hyphenated UUIDv7. Panics if generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
