// Package store provides SQLite-backed storage for a reference sync host.
//
// The schema mirrors the parts of a content site that metadata sync touches:
//   - posts and terms: the entities that own metadata
//   - postmeta and termmeta: metadata rows, values in serialized form
//   - options: site settings, including provider sync toggles
//   - sync_events: append-only log of outbound event records
//
// # Ordering
//
// Event log reads are ordered by seq, an INTEGER logical clock assigned on
// insert. Metadata reads are ordered by meta_id so the first row for a key
// is always the oldest, matching how the host CMS resolves single values.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: metadata rows cascade with their owner
package store
