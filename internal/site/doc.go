// Package site is a reference sync host backed by a SQLite store.
//
// A Site owns one site's posts, terms, metadata, settings and outbound
// event log, and implements the contracts providers need from a host
// (provider.Helper, provider.Recorder and provider.Content). Metadata
// writes made through a Site are reported to the registry before they are
// applied, so every enabled provider sees them.
//
// Two Sites linked by Export and Apply behave like two linked CMS
// installations: events exported from one are replayed into the other,
// and replayed writes never produce new outbound events.
package site
