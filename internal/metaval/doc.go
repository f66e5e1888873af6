// Package metaval models metadata values as they travel between linked sites.
//
// Values are a sealed set of JSON-compatible types. Floats are excluded so
// that every value has exactly one canonical encoding; hosts that need
// fractional numbers store them as strings.
//
// Two encodings exist:
//   - MarshalCanonical: RFC 8785 canonical JSON with NFC strings, used for
//     content hashes and golden files. MarshalStable is the same encoding
//     with string bytes preserved, used for stored event payloads.
//   - Serialize/Unserialize: the "maybe serialize" form stored in meta
//     tables and carried in event payloads. Plain strings are stored
//     verbatim; everything else is stored as MarshalStable JSON.
package metaval
