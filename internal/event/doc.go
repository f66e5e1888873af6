// Package event defines the records exchanged between linked sites.
//
// Outbound, a provider turns a local metadata write into a Record which the
// host stores and ships. Inbound, the host hands providers an Inbound event
// and collects the Response acknowledgement from whichever provider claims
// the event's slug.
//
// Inbound events arrive in batch files (YAML). Batches are decoded with
// strict field checking and validated against an embedded CUE schema
// before any provider sees them.
package event
