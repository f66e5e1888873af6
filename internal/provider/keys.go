package provider

// Metadata keys that never produce sync events.
const (
	// KeyEditLock is the host's concurrent-edit marker, rewritten on every
	// editor heartbeat.
	KeyEditLock = "_edit_lock"

	// KeyReferenceID stores an entity's cross-site reference id. Syncing it
	// would feed back into another sync event.
	KeyReferenceID = "instawp_event_sync_reference_id"
)

var excludedKeys = map[string]bool{
	KeyEditLock:    true,
	KeyReferenceID: true,
}

// IsExcludedKey reports whether writes to key are never synced.
func IsExcludedKey(key string) bool {
	return excludedKeys[key]
}
