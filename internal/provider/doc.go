// Package provider defines the sync event provider capability and the
// contracts a host must satisfy to run providers.
//
// A provider maps one entity kind's metadata writes to outbound event
// records and replays inbound events as local writes. Providers register
// into an explicit, ordered Registry. The host walks the registry for both
// directions:
//
//   - local write: Registry.NotifyMutation calls every provider's
//     OnLocalMutation; each provider ignores mutations of other entity kinds.
//   - inbound event: Registry.Dispatch threads one response through every
//     provider's OnInboundEvent. A provider that does not own the event's
//     slug returns the response it was given, unchanged.
//
// Guard conditions (sync disabled, excluded key, no matching local entity)
// are not errors. Providers return an error only when a host call fails.
package provider
